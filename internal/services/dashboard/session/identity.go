package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// Role is the access class of an identity.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// Identity is the authenticated principal of a scope.
type Identity struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Role   Role   `json:"role" validate:"required,oneof=admin user"`
	Avatar string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// IsAdmin reports whether the identity has the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields and the role.
func (i Identity) Validate() error {
	return validate.Struct(i)
}

// EncodeIdentity serializes i for persistence.
func EncodeIdentity(i Identity) ([]byte, error) {
	if err := i.Validate(); err != nil {
		return nil, fmt.Errorf("invalid identity: %w", err)
	}
	return json.Marshal(i)
}

// DecodeIdentity strictly parses a persisted identity. Unknown fields,
// trailing data and records failing Validate are rejected.
func DecodeIdentity(data []byte) (Identity, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var identity Identity
	if err := dec.Decode(&identity); err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Identity{}, errors.New("decode identity: trailing data")
	}
	if err := identity.Validate(); err != nil {
		return Identity{}, fmt.Errorf("invalid identity: %w", err)
	}
	return identity, nil
}

// Package sessioncookie issues and reads the signed cookie that identifies a
// browser scope.
package sessioncookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/requestmeta"
)

// Name is the session cookie name.
const Name = "safedrive_session"

const issuer = "safedrive"

// Claims carries the scope id in the sid claim.
type Claims struct {
	ScopeID string `json:"sid"`
	jwt.RegisteredClaims
}

// Codec signs and verifies scope tokens with HS256.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec returns a codec for secret. ttl must be positive.
func NewCodec(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Codec{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for scopeID and returns it with its expiry.
func (c *Codec) Issue(scopeID string) (string, time.Time, error) {
	scopeID = strings.TrimSpace(scopeID)
	if scopeID == "" {
		return "", time.Time{}, errors.New("scope id is required")
	}
	now := c.now()
	expiresAt := now.Add(c.ttl)
	claims := Claims{
		ScopeID: scopeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies token and returns its scope id.
func (c *Codec) Parse(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.ScopeID) == "" {
		return "", errors.New("invalid session token")
	}
	return claims.ScopeID, nil
}

// Read returns the trimmed session cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// ScopeID returns the verified scope id carried by r.
func (c *Codec) ScopeID(r *http.Request) (string, bool) {
	token, ok := Read(r)
	if !ok {
		return "", false
	}
	scopeID, err := c.Parse(token)
	if err != nil {
		return "", false
	}
	return scopeID, true
}

// Write sets a freshly signed cookie for scopeID.
func (c *Codec) Write(w http.ResponseWriter, r *http.Request, scopeID string) error {
	token, expiresAt, err := c.Issue(scopeID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Package preferences stores the per-scope admin settings and driver
// profile forms.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/services/dashboard/storage"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Settings are the admin detection thresholds and notification toggles.
type Settings struct {
	DrowsinessThreshold  int  `json:"drowsinessThreshold" validate:"min=0,max=100"`
	DrunkThreshold       int  `json:"drunkThreshold" validate:"min=0,max=100"`
	DistractionThreshold int  `json:"distractionThreshold" validate:"min=0,max=100"`
	EmailNotifications   bool `json:"emailNotifications"`
	SMSNotifications     bool `json:"smsNotifications"`
	PushNotifications    bool `json:"pushNotifications"`
	DriverReports        bool `json:"driverReports"`
}

// DefaultSettings returns the settings of a fresh scope.
func DefaultSettings() Settings {
	return Settings{
		DrowsinessThreshold:  75,
		DrunkThreshold:       80,
		DistractionThreshold: 70,
		EmailNotifications:   true,
		SMSNotifications:     true,
		PushNotifications:    false,
		DriverReports:        true,
	}
}

// APIKeyPreview is the masked integration key shown on the settings page.
const APIKeyPreview = "sk_live_••••••••••••4f2a"

// Profile is the driver's editable contact and license details.
type Profile struct {
	Phone            string `json:"phone" validate:"omitempty,max=32"`
	Address          string `json:"address" validate:"omitempty,max=200"`
	EmergencyContact string `json:"emergencyContact" validate:"omitempty,max=100"`
	EmergencyPhone   string `json:"emergencyPhone" validate:"omitempty,max=32"`
	LicenseNumber    string `json:"licenseNumber" validate:"omitempty,alphanum,max=32"`
	LicenseExpiry    string `json:"licenseExpiry" validate:"omitempty,datetime=2006-01-02"`
}

// DefaultProfile returns the profile of a fresh scope.
func DefaultProfile() Profile {
	return Profile{
		Phone:            "+1 (555) 123-4567",
		Address:          "123 Main St, Anytown, USA",
		EmergencyContact: "Jane Doe",
		EmergencyPhone:   "+1 (555) 987-6543",
		LicenseNumber:    "DL12345678",
		LicenseExpiry:    "2026-12-31",
	}
}

// Validate checks s and reports failing fields as metadata.
func (s Settings) Validate() error { return check(s) }

// Validate checks p and reports failing fields as metadata.
func (p Profile) Validate() error { return check(p) }

// Store reads and writes preferences in one scope bucket.
type Store struct {
	bucket storage.Bucket
}

// NewStore returns a store over bucket.
func NewStore(bucket storage.Bucket) Store {
	return Store{bucket: bucket}
}

// Settings returns the saved settings, or the defaults.
func (s Store) Settings(ctx context.Context) (Settings, error) {
	return load(ctx, s.bucket, storage.KeySettings, DefaultSettings())
}

// SaveSettings validates and saves settings.
func (s Store) SaveSettings(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return save(ctx, s.bucket, storage.KeySettings, settings)
}

// Profile returns the saved profile, or the defaults.
func (s Store) Profile(ctx context.Context) (Profile, error) {
	return load(ctx, s.bucket, storage.KeyProfile, DefaultProfile())
}

// SaveProfile validates and saves profile.
func (s Store) SaveProfile(ctx context.Context, profile Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	return save(ctx, s.bucket, storage.KeyProfile, profile)
}

func load[T any](ctx context.Context, bucket storage.Bucket, key string, fallback T) (T, error) {
	data, err := bucket.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, apperrors.Wrap(apperrors.CodeStorageUnavailable, "load "+key, err)
	}
	value := fallback
	if err := json.Unmarshal(data, &value); err != nil {
		// A record this package cannot read is replaced on the next save.
		return fallback, nil
	}
	return value, nil
}

func save[T any](ctx context.Context, bucket storage.Bucket, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := bucket.Put(ctx, key, data); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageUnavailable, "save "+key, err)
	}
	return nil
}

func check(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	return apperrors.WithMetadata(apperrors.CodeValidationFailed, "invalid form", FieldErrors(fieldErrs))
}

// FieldErrors maps validator failures to form field names and messages.
func FieldErrors(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[lowerFirst(fe.Field())] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "datetime":
		return "Use the format YYYY-MM-DD"
	case "alphanum":
		return "Use letters and digits only"
	case "eqfield":
		return "Does not match"
	default:
		return "Invalid value"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}

package model

import "time"

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Gender values accepted for users.gender.  Unknown input falls back to
// GenderOther at the handler layer.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool { return s == RoleUser || s == RoleAdmin }

// ValidGender reports whether s is one of the known gender values.
func ValidGender(s string) bool {
	return s == GenderMale || s == GenderFemale || s == GenderOther
}

// User mirrors the `users` table.  PasswordHash, OTP and OTPExpiresAt are
// internal state and must never be serialized to clients; handlers build
// separate response types from the public fields.
//
// OTP and OTPExpiresAt are null except during an active password-reset
// window: set together when a code is issued, cleared together when the
// code is consumed or superseded.
type User struct {
	ID             uint64     // users.id
	Name           string     // users.name
	Email          string     // users.email (unique, stored normalized)
	PasswordHash   string     // users.password_hash (bcrypt)
	Role           string     // users.role (user|admin)
	Contact        string     // users.contact
	Country        string     // users.country
	DOB            string     // users.dob
	Gender         string     // users.gender (Male|Female|Other)
	ProfilePicture string     // users.profile_picture (upload reference)
	DeviceToken    string     // users.device_token (push registration)
	OTP            *string    // users.otp (nullable)
	OTPExpiresAt   *time.Time // users.otp_expires_at (nullable)
	CreatedAt      time.Time  // users.created_at
	UpdatedAt      time.Time  // users.updated_at
}

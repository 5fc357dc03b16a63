package entity

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/ugram-app/backend/internal/domain/clock"
)

// Validation rules for user fields. Email is a simplified RFC-like pattern;
// phone is international format: optional +, first digit 1-9, 2-15 digits.
var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// User is the aggregate root for the user domain. Instances are only ever in
// a valid state: the factory and every mutator validate before assigning, so
// a failed update leaves the previous state untouched.
//
// ID and RegistrationDate are set once at creation and never change.
type User struct {
	ID               uuid.UUID
	Username         string
	Email            string
	FirstName        string
	LastName         string
	PhoneNumber      string
	ProfilePhotoURL  string
	RegistrationDate time.Time
}

// NewUser creates a user with a generated ID and the registration date read
// from the supplied clock. PhoneNumber and ProfilePhotoURL may be empty.
func NewUser(username, email, firstName, lastName string, clk clock.Clock, phoneNumber, profilePhotoURL string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if phoneNumber != "" {
		if err := validatePhoneNumber(phoneNumber); err != nil {
			return nil, err
		}
	}
	return &User{
		ID:               uuid.New(),
		Username:         username,
		Email:            email,
		FirstName:        firstName,
		LastName:         lastName,
		PhoneNumber:      phoneNumber,
		ProfilePhotoURL:  profilePhotoURL,
		RegistrationDate: clk.Now(),
	}, nil
}

// ProfileUpdate carries a partial profile change. A nil field is left
// unchanged; a non-nil field replaces the current value, so a pointer to an
// empty PhoneNumber clears the number.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
}

// UpdateProfile applies the supplied fields. Changed fields are validated
// before any mutation happens, so either all fields apply or none do.
func (u *User) UpdateProfile(in ProfileUpdate) error {
	if in.Email != nil {
		if err := validateEmail(*in.Email); err != nil {
			return err
		}
	}
	if in.PhoneNumber != nil && *in.PhoneNumber != "" {
		if err := validatePhoneNumber(*in.PhoneNumber); err != nil {
			return err
		}
	}

	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	return nil
}

// UpdateProfilePhoto replaces the photo URL unconditionally. An empty URL
// removes the photo.
func (u *User) UpdateProfilePhoto(url string) {
	u.ProfilePhotoURL = url
}

// FullName returns the display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func validateUsername(username string) error {
	if username == "" {
		return validationFailed("username", "cannot be empty")
	}
	if len(username) < 3 {
		return validationFailed("username", "must be at least 3 characters long")
	}
	if len(username) > 50 {
		return validationFailed("username", "must not exceed 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return validationFailed("username", "can only contain letters, numbers, and underscores")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return validationFailed("email", "cannot be empty")
	}
	if len(email) > 100 {
		return validationFailed("email", "must not exceed 100 characters")
	}
	if !emailRegex.MatchString(email) {
		return validationFailed("email", "invalid email format")
	}
	return nil
}

func validatePhoneNumber(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return validationFailed("phone_number", "invalid phone number format, use international format (e.g., +15551234567)")
	}
	return nil
}

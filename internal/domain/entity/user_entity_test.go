package entity

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugram-app/backend/internal/domain/clock"
)

var testClock = clock.Fixed{T: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

func TestNewUser(t *testing.T) {
	u, err := NewUser("johndoe", "john.doe@example.com", "John", "Doe", testClock, "+15551234567", "https://cdn.example.com/p.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "johndoe", u.Username)
	assert.Equal(t, "john.doe@example.com", u.Email)
	assert.Equal(t, "John", u.FirstName)
	assert.Equal(t, "Doe", u.LastName)
	assert.Equal(t, "+15551234567", u.PhoneNumber)
	assert.Equal(t, "https://cdn.example.com/p.jpg", u.ProfilePhotoURL)
	assert.Equal(t, testClock.T, u.RegistrationDate)
}

func TestNewUser_OptionalFieldsEmpty(t *testing.T) {
	u, err := NewUser("janedoe", "jane@example.com", "Jane", "Doe", testClock, "", "")
	require.NoError(t, err)
	assert.Empty(t, u.PhoneNumber)
	assert.Empty(t, u.ProfilePhotoURL)
}

func TestNewUser_GeneratesUniqueIDs(t *testing.T) {
	a, err := NewUser("user_a", "a@example.com", "A", "A", testClock, "", "")
	require.NoError(t, err)
	b, err := NewUser("user_b", "b@example.com", "B", "B", testClock, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewUser_UsernameValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"empty", "", true},
		{"too short", "ab", true},
		{"minimum length", "abc", false},
		{"maximum length", strings.Repeat("a", 50), false},
		{"too long", strings.Repeat("a", 51), true},
		{"hyphen rejected", "john-doe", true},
		{"space rejected", "john doe", true},
		{"underscore allowed", "john_doe_99", false},
		{"digits allowed", "user123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, "x@example.com", "X", "Y", testClock, "", "")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "username", verr.Field)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewUser_EmailValidation(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"empty", "", true},
		{"missing at", "johnexample.com", true},
		{"missing tld", "john@example", true},
		{"single letter tld", "john@example.c", true},
		{"valid", "john@example.com", false},
		{"plus tag", "john+tag@example.co.uk", false},
		{"too long", strings.Repeat("a", 95) + "@x.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser("johndoe", tt.email, "X", "Y", testClock, "", "")
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "email", verr.Field)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewUser_PhoneValidation(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"with plus", "+15551234567", false},
		{"without plus", "15551234567", false},
		{"leading zero", "0123456", true},
		{"plus leading zero", "+0123456", true},
		{"single digit", "1", true},
		{"two digits", "12", false},
		{"fifteen digits", "123456789012345", false},
		{"sixteen digits", "1234567890123456", true},
		{"letters", "+1555abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser("johndoe", "x@example.com", "X", "Y", testClock, tt.phone, "")
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "phone_number", verr.Field)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile_PartialApplication(t *testing.T) {
	u, err := NewUser("johndoe", "john@example.com", "John", "Doe", testClock, "+15551234567", "")
	require.NoError(t, err)

	require.NoError(t, u.UpdateProfile(ProfileUpdate{FirstName: strPtr("Johnny")}))

	assert.Equal(t, "Johnny", u.FirstName)
	assert.Equal(t, "Doe", u.LastName)
	assert.Equal(t, "john@example.com", u.Email)
	assert.Equal(t, "+15551234567", u.PhoneNumber)
}

func TestUpdateProfile_ClearPhone(t *testing.T) {
	u, err := NewUser("johndoe", "john@example.com", "John", "Doe", testClock, "+15551234567", "")
	require.NoError(t, err)

	require.NoError(t, u.UpdateProfile(ProfileUpdate{PhoneNumber: strPtr("")}))
	assert.Empty(t, u.PhoneNumber)
}

func TestUpdateProfile_InvalidEmailLeavesStateUntouched(t *testing.T) {
	u, err := NewUser("johndoe", "john@example.com", "John", "Doe", testClock, "", "")
	require.NoError(t, err)

	err = u.UpdateProfile(ProfileUpdate{
		FirstName: strPtr("Changed"),
		Email:     strPtr("not-an-email"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	// validate-before-mutate: nothing applied, including the valid first name
	assert.Equal(t, "John", u.FirstName)
	assert.Equal(t, "john@example.com", u.Email)
}

func TestUpdateProfile_InvalidPhoneLeavesStateUntouched(t *testing.T) {
	u, err := NewUser("johndoe", "john@example.com", "John", "Doe", testClock, "+15551234567", "")
	require.NoError(t, err)

	err = u.UpdateProfile(ProfileUpdate{PhoneNumber: strPtr("+0invalid")})
	require.Error(t, err)
	assert.Equal(t, "+15551234567", u.PhoneNumber)
}

func TestUpdateProfile_RegistrationDateImmutable(t *testing.T) {
	u, err := NewUser("johndoe", "john@example.com", "John", "Doe", testClock, "", "")
	require.NoError(t, err)

	require.NoError(t, u.UpdateProfile(ProfileUpdate{Email: strPtr("new@example.com")}))
	assert.Equal(t, testClock.T, u.RegistrationDate)
}

func TestUpdateProfilePhoto(t *testing.T) {
	u, err := NewUser("johndoe", "john@example.com", "John", "Doe", testClock, "", "")
	require.NoError(t, err)

	u.UpdateProfilePhoto("https://cdn.example.com/new.jpg")
	assert.Equal(t, "https://cdn.example.com/new.jpg", u.ProfilePhotoURL)

	// no validation, empty clears
	u.UpdateProfilePhoto("")
	assert.Empty(t, u.ProfilePhotoURL)
}

func TestValidationError_Unwrap(t *testing.T) {
	_, err := NewUser("", "x@example.com", "X", "Y", testClock, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestFullName(t *testing.T) {
	u, err := NewUser("johndoe", "john@example.com", "John", "Doe", testClock, "", "")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", u.FullName())
}

// Package validate contains pure input validation for account data.
// Validation failures are values, not errors: callers receive a
// field-keyed map and decide how to surface it.
package validate

import (
	"strings"

	"github.com/kanriapp/kanri/internal/i18n"
)

const (
	minPasswordLength = 8
	minUsernameLength = 3
)

var messages = i18n.Default()

// FieldErrors maps a form field name to a user-facing message.
// A nil map means the input passed validation.
type FieldErrors map[string]string

// Registration is the input for creating an account.
type Registration struct {
	Username string
	Email    string
	Password string
}

// ProfileUpdate carries the fields of a partial profile edit.
// Nil pointers mean the field was not submitted and is not validated.
type ProfileUpdate struct {
	Username *string
	Email    *string
}

// IsValidEmail reports whether s has a local@domain.tld shape: a
// non-empty local part, exactly one "@", and a dot inside the domain
// that is neither leading nor trailing.
func IsValidEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.HasSuffix(domain, ".")
}

// IsValidPassword reports whether s is at least 8 characters long.
func IsValidPassword(s string) bool {
	return len(s) >= minPasswordLength
}

// IsValidUsername reports whether s is at least 3 characters long.
func IsValidUsername(s string) bool {
	return len(s) >= minUsernameLength
}

// ValidateRegistration checks all three fields independently and
// returns one entry per invalid field, or nil when everything passes.
func ValidateRegistration(in Registration) FieldErrors {
	errs := FieldErrors{}
	if !IsValidUsername(in.Username) {
		errs["username"] = messages.Message(i18n.KindUsernameTooShort)
	}
	if !IsValidEmail(in.Email) {
		errs["email"] = messages.Message(i18n.KindInvalidEmail)
	}
	if !IsValidPassword(in.Password) {
		errs["password"] = messages.Message(i18n.KindPasswordTooShort)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateProfileUpdate validates only the fields present in the
// partial update. Absent fields are not errors.
func ValidateProfileUpdate(in ProfileUpdate) FieldErrors {
	errs := FieldErrors{}
	if in.Username != nil && !IsValidUsername(*in.Username) {
		errs["username"] = messages.Message(i18n.KindUsernameTooShort)
	}
	if in.Email != nil && !IsValidEmail(*in.Email) {
		errs["email"] = messages.Message(i18n.KindInvalidEmail)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

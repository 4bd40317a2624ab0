package roost

import (
	"regexp"
	"strings"
)

// Field limits enforced client-side before any request is dispatched.
const (
	NameMaxLen     = 50
	UsernameMinLen = 3
	UsernameMaxLen = 20
	BioMaxLen      = 160
	PostMaxLen     = 500
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateName checks a display name and returns the trimmed value.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(trimmed) > NameMaxLen {
		return "", &ValidationError{Field: "name", Reason: "must be at most 50 characters"}
	}
	return trimmed, nil
}

// ValidateUsername checks a handle: 3-20 characters, letters, digits and
// underscores only.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLen {
		return &ValidationError{Field: "username", Reason: "must be at least 3 characters"}
	}
	if len(username) > UsernameMaxLen {
		return &ValidationError{Field: "username", Reason: "must be at most 20 characters"}
	}
	if !usernamePattern.MatchString(username) {
		return &ValidationError{Field: "username", Reason: "may only contain letters, numbers, and underscores"}
	}
	return nil
}

// ValidateBio checks a bio field.
func ValidateBio(bio string) error {
	if len(bio) > BioMaxLen {
		return &ValidationError{Field: "bio", Reason: "must be at most 160 characters"}
	}
	return nil
}

// ValidatePostContent checks post text and returns the trimmed value.
func ValidatePostContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if len(trimmed) > PostMaxLen {
		return "", &ValidationError{Field: "content", Reason: "must be at most 500 characters"}
	}
	return trimmed, nil
}

// ValidateProfileUpdate checks all mutable profile fields and returns the
// update with the name trimmed.
func ValidateProfileUpdate(update ProfileUpdate) (ProfileUpdate, error) {
	name, err := ValidateName(update.Name)
	if err != nil {
		return ProfileUpdate{}, err
	}
	if err := ValidateBio(update.Bio); err != nil {
		return ProfileUpdate{}, err
	}
	update.Name = name
	return update, nil
}

// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accesshub/accesshub/internal/platform/apperr"
	"github.com/accesshub/accesshub/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "firstname", "Avery", false},
		{"empty_string", "firstname", "", true},
		{"whitespace_only", "firstname", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Letters checks the letters-and-spaces rule used by names and
role titles.
*/
func TestValidator_Letters(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"plain_word", "Moderator", true},
		{"with_space", "Content Manager", true},
		{"empty_is_allowed", "", true}, // emptiness is Required's concern
		{"digits", "Admin2", false},
		{"punctuation", "Super-Admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Letters("title", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Phone checks the accepted phone number formats.
*/
func TestValidator_Phone(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"bare_ten_digits", "9876543210", true},
		{"zero_prefixed", "09876543210", true},
		{"country_prefixed", "919876543210", true},
		{"bad_leading_digit", "1234567890", false},
		{"too_short", "98765", false},
		{"alpha", "98765abcde", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Phone("phone", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Password checks the password policy rule.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"meets_policy", "abc12!", true},
		{"long_mixed", "Str0ng#Password", true},
		{"too_short", "a1!", false},
		{"too_long", "a1!aaaaaaaaaaaaaaaaaaaaaa", false},
		{"no_digit", "abcdef!", false},
		{"no_letter", "123456!", false},
		{"no_special", "abc123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Password("password", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("firstname", "Avery").
		Letters("firstname", "Avery").
		MaxLen("firstname", "Avery", 50).
		Email("email", "avery@accesshub.io").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("firstname", "").      // Fails
		MinLen("firstname", "a", 5).    // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

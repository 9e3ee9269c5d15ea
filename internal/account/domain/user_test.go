package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password1 string
		password2 string
		want      error
	}{
		{"valid", "alice", "s3cret", "s3cret", nil},
		{"mismatch wins over short name", "al", "abcd", "abce", ErrPasswordMismatch},
		{"short name", "bob", "abcd", "abcd", ErrNameTooShort},
		{"empty name", "", "abcd", "abcd", ErrNameTooShort},
		{"short password", "carol", "abc", "abc", ErrPasswordTooShort},
		{"multibyte name counts runes", "анна", "abcd", "abcd", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateRegistration(tt.username, tt.password1, tt.password2))
		})
	}
}

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"billing@acme.example", true},
		{"a@b.co", true},
		{"", false},
		{"not-an-email", false},
		{"two@@signs.example", false},
		{"spaces in@mail.example", false},
		{"missing@tld", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsEmail(tt.email))
		})
	}
}

func TestIsLuhn(t *testing.T) {
	tests := []struct {
		number string
		valid  bool
	}{
		{"79927398713", true},
		{"4561 2612 1234 5467", true},
		{"79927398710", false},
		{"", false},
		{"not-a-number", false},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsLuhn(tt.number))
		})
	}
}

package validate

import (
	"regexp"
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsLuhn reports whether s is a Luhn-valid account number (card PAN).
func IsLuhn(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	err := goluhn.Validate(s)
	return err == nil
}

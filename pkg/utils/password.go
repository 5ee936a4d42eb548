package utils

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// dummyHash is compared against when a login names an unknown user, so the
// request costs a bcrypt verification either way.
var dummyHash = HashPassword("definitely-not-a-password")

func CheckPasswordDummy(pw string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(pw))
}

// ValidPassword enforces the complexity policy: at least 8 characters, at
// least one letter, and at least one digit or symbol.
func ValidPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var hasLetter, hasDigitOrSymbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			hasDigitOrSymbol = true
		}
	}
	return hasLetter && hasDigitOrSymbol
}

package utils

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordSymbols daftar simbol yang dihitung oleh policy password.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

const (
	MinPasswordLength = 6
	// batas bcrypt, dihitung dalam byte
	MaxPasswordBytes = 72
)

// HashPassword mengubah password biasa menjadi hash bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword membandingkan password inputan dengan hash di database
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsStrongPassword: minimal 6 karakter, maksimal 72 byte, ada huruf, ada simbol.
func IsStrongPassword(password string) bool {
	if len([]rune(password)) < MinPasswordLength || len(password) > MaxPasswordBytes {
		return false
	}

	var hasLetter, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}
	return hasLetter && hasSymbol
}

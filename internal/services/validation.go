package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
	orderIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	maxAddressLength = 500
	maxNotesLength   = 1000
	maxNameLength    = 100
	maxPhoneLength   = 20
	maxBioLength     = 1000
)

func isValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// emailDomainAllowed: kosong = semua domain boleh.
func emailDomainAllowed(email string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range domains {
		if strings.EqualFold(domain, d) {
			return true
		}
	}
	return false
}

func isValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func isValidTime(s string) bool {
	if len(s) != len(timeLayout) {
		return false
	}
	_, err := time.Parse(timeLayout, s)
	return err == nil
}

func runeLen(s string) int {
	return len([]rune(s))
}

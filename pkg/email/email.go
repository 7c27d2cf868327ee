// Package email holds the participant email helpers shared by request
// validation and the stores. An email is a participant's identity, so every
// layer must agree on its canonical form.
package email

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

// Normalize returns the canonical form of an email address: trimmed and
// lowercased. Membership checks always run on normalized emails so
// "A@x.edu" and "a@x.edu" are one participant.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValid reports whether the address is a plausible email. Length is bounded
// before the format check to fail fast on abusive input.
func IsValid(email string) bool {
	if !govalidator.StringLength(email, "3", "254") {
		return false
	}
	return govalidator.IsEmail(email)
}

// DisplayName derives a human-readable name from the local part, used when
// rosters are rendered without a student record to join against.
func DisplayName(email string) string {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "Student"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

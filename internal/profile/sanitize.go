package profile

import (
	"strings"
	"unicode"
)

// Sanitize normalizes a draft before validation. It never rejects input.
func Sanitize(f Fields) Fields {
	return Fields{
		Name:        strings.TrimSpace(f.Name),
		Phone:       stripPhoneSeparators(f.Phone),
		Location:    strings.TrimSpace(f.Location),
		Description: strings.TrimSpace(f.Description),
		Website:     strings.TrimSpace(f.Website),
	}
}

func stripPhoneSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '-', '(', ')':
			return -1
		}
		return r
	}, s)
}

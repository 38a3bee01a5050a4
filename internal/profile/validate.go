package profile

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field error messages.
const (
	MsgNameRequired      = "name is required"
	MsgNameLength        = "name must be between 2 and 50 characters"
	MsgNameCharset       = "name may only contain letters, spaces, hyphens and periods"
	MsgPhoneFormat       = "phone must be a Romanian number (0XXXXXXXXX or +40XXXXXXXXX)"
	MsgLocationLength    = "location must be between 2 and 100 characters"
	MsgLocationUnknown   = "location must name a Romanian city, county or sector"
	MsgDescriptionLength = "description must be between 10 and 500 characters"
	MsgWebsiteFormat     = "website must be a valid http:// or https:// address"
)

var (
	nameRe    = regexp.MustCompile(`^[a-zA-ZăâîșțĂÂÎȘȚşţŞŢ\s.\-]+$`)
	phoneRe   = regexp.MustCompile(`^(?:0\d{9}|\+4\d{10})$`)
	websiteRe = regexp.MustCompile(`^https?://(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z0-9-]{2,}(?::\d{1,5})?(?:/[^\s?#]*)?(?:\?[^\s#]*)?(?:#\S*)?$`)
)

// lengths checks rune counts; validator's min/max count runes for strings.
var lengths = validator.New()

func withinLength(s, tag string) bool {
	return lengths.Var(s, tag) == nil
}

// Validate checks a draft and returns the fields that failed. It never
// mutates its input. Optional fields left empty are not checked.
func Validate(f Fields) ErrorSet {
	errs := make(ErrorSet)
	if msg := validateName(f.Name); msg != "" {
		errs[FieldName] = msg
	}
	if msg := validatePhone(f.Phone); msg != "" {
		errs[FieldPhone] = msg
	}
	if msg := validateLocation(f.Location); msg != "" {
		errs[FieldLocation] = msg
	}
	if msg := validateDescription(f.Description); msg != "" {
		errs[FieldDescription] = msg
	}
	if msg := validateWebsite(f.Website); msg != "" {
		errs[FieldWebsite] = msg
	}
	return errs
}

func validateName(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return MsgNameRequired
	case !withinLength(name, "min=2,max=50"):
		return MsgNameLength
	case !nameRe.MatchString(name):
		return MsgNameCharset
	}
	return ""
}

func validatePhone(phone string) string {
	phone = stripPhoneSeparators(phone)
	if phone == "" || phoneRe.MatchString(phone) {
		return ""
	}
	return MsgPhoneFormat
}

func validateLocation(loc string) string {
	loc = strings.TrimSpace(loc)
	switch {
	case loc == "":
		return ""
	case !withinLength(loc, "min=2,max=100"):
		return MsgLocationLength
	case !isKnownLocation(loc):
		return MsgLocationUnknown
	}
	return ""
}

func validateDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" || withinLength(desc, "min=10,max=500") {
		return ""
	}
	return MsgDescriptionLength
}

func validateWebsite(site string) string {
	site = strings.TrimSpace(site)
	if site == "" {
		return ""
	}
	if !websiteRe.MatchString(site) || lengths.Var(site, "http_url") != nil {
		return MsgWebsiteFormat
	}
	return ""
}

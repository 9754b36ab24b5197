package extractor

import (
	"regexp"
	"strings"

	"sadapurne/internal/certificate"
)

var typeLabels = []struct {
	typ   certificate.Type
	label *regexp.Regexp
}{
	{certificate.TypeBasicRegistration, regexp.MustCompile(`(?i)\b(?:Registration\s+Certificate|Basic\s+Registration|Certificate\s+of\s+Registration)\b`)},
	{certificate.TypeStateLicense, regexp.MustCompile(`(?i)\bState\s+Licen[cs]e\b`)},
	{certificate.TypeCentralLicense, regexp.MustCompile(`(?i)\bCentral\s+Licen[cs]e\b`)},
}

// FSSAI registration numbers begin with 2; licenses with 1.
const registrationPrefix = "2"

// inferType picks the class from its printed label. Conflicting labels make
// the type unknown. Without any label, only a registration-prefixed number
// identifies a basic registration.
func inferType(text string, license certificate.Field[string]) certificate.Type {
	var seen []certificate.Type
	for _, tl := range typeLabels {
		if tl.label.MatchString(text) {
			seen = append(seen, tl.typ)
		}
	}
	switch len(seen) {
	case 1:
		return seen[0]
	case 0:
		if number, ok := license.Get(); ok && strings.HasPrefix(number, registrationPrefix) {
			return certificate.TypeBasicRegistration
		}
	}
	return certificate.TypeUnknown
}

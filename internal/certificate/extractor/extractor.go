// Package extractor turns raw certificate text into a certificate.Record.
//
// Extraction is a pure function of the text. Each field is found or missing on
// its own; nothing is defaulted to a business value.
package extractor

import (
	"regexp"
	"strings"

	"sadapurne/internal/certificate"
)

// Extractor reads FSSAI certificate fields from plain text.
type Extractor struct{}

// New returns a field extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract reads every field independently from text.
func (e *Extractor) Extract(text string) certificate.Record {
	text = Clean(text)
	license := extractLicenseNumber(text)
	issue, expiry := extractDates(text)
	return certificate.Record{
		BusinessName:  extractBusinessName(text),
		Type:          inferType(text, license),
		LicenseNumber: license,
		IssueDate:     issue,
		ExpiryDate:    expiry,
		Address:       extractAddress(text),
		BusinessType:  extractBusinessType(text),
	}
}

var (
	// PDF text layers sometimes split the year of a date, e.g. "31/03/2 028".
	brokenYear = regexp.MustCompile(`([/.\-])([12]) (\d{3})\b`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// Clean strips NUL bytes, unifies line endings and re-joins broken years.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return brokenYear.ReplaceAllString(text, "$1$2$3")
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

var (
	nameAnchors = []*regexp.Regexp{
		regexp.MustCompile(`(?im)Operator\s*\(\s*FBO\s*\)\s*[:\-]?[ \t]*([^\n]+)`),
		regexp.MustCompile(`(?im)Licensee\s*Name\s*[:\-]?[ \t]*([^\n]+)`),
		regexp.MustCompile(`(?im)Business\s+Name\s*[:\-]?[ \t]*([^\n]+)`),
		regexp.MustCompile(`(?im)^[ \t]*Name(?:\s+of\s+[^:\n]{1,40})?[ \t]*[:\-][ \t]*([^\n]+)`),
	}
	notAName     = regexp.MustCompile(`(?i)address|department|certificate|[/\\]`)
	// Place nouns like "Road" stay; only a locality preposition ends the name.
	nameLocality = regexp.MustCompile(`(?i)\s+(?:near|opp|opposite|behind)\.?\s+\S`)
)

func extractBusinessName(text string) certificate.Field[string] {
	for _, anchor := range nameAnchors {
		for _, m := range anchor.FindAllStringSubmatch(text, -1) {
			name := collapse(m[1])
			if notAName.MatchString(name) {
				continue
			}
			if loc := nameLocality.FindStringIndex(name); loc != nil {
				name = name[:loc[0]]
			}
			name = strings.Trim(name, " ,;:-")
			if len([]rune(name)) > 2 {
				return certificate.Found(name)
			}
		}
	}
	return certificate.Missing[string]()
}

var (
	labelledLicense = regexp.MustCompile(`(?i)(?:Registration|Licen[cs]e)\s*(?:No|Number)\.?\s*[:\-]?\s*(\d{14})\b`)
	bareLicense     = regexp.MustCompile(`\b(\d{14})\b`)
)

func extractLicenseNumber(text string) certificate.Field[string] {
	if m := labelledLicense.FindStringSubmatch(text); m != nil {
		return certificate.Found(m[1])
	}
	if m := bareLicense.FindStringSubmatch(text); m != nil {
		return certificate.Found(m[1])
	}
	return certificate.Missing[string]()
}

var (
	addressLabel = regexp.MustCompile(`(?i)^\s*(?:Business\s+Address|Address\s+of\s+(?:the\s+)?Premises|Address)\b\s*[:\-]?\s*(.*)$`)
	// Lines that start another section end the address block.
	sectionLabel = regexp.MustCompile(`(?i)^\s*(?:Licen[cs]e|Registration|Valid|Certificate|Name|Operator|Kind\s+of\s+Business|Issue|Date|Category|Products?|Signature|FBO)\b`)
	hasAlnum     = regexp.MustCompile(`[\p{L}\p{N}]`)
)

func extractAddress(text string) certificate.Field[string] {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		m := addressLabel.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		parts := []string{m[1]}
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" || sectionLabel.MatchString(next) {
				break
			}
			parts = append(parts, next)
		}
		address := strings.Trim(collapse(strings.Join(parts, " ")), " ,;:-")
		if hasAlnum.MatchString(address) {
			return certificate.Found(address)
		}
	}
	return certificate.Missing[string]()
}

var businessKind = regexp.MustCompile(`(?im)Kind\s*of\s*Business\s*[:\-]?[ \t]*([^\n]+)`)

func extractBusinessType(text string) certificate.Field[string] {
	m := businessKind.FindStringSubmatch(text)
	if m == nil {
		return certificate.Missing[string]()
	}
	kind := strings.Trim(collapse(m[1]), " ,;:-")
	if kind == "" {
		return certificate.Missing[string]()
	}
	return certificate.Found(kind)
}

package extractor

import (
	"regexp"
	"strings"
	"time"

	"sadapurne/internal/certificate"
)

const datePattern = `(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{4}|\d{4}-\d{2}-\d{2})`

var (
	issueDateLabel  = regexp.MustCompile(`(?i)Date\s*of\s*Issue|Issue\s*Date|Issued\s*On`)
	expiryDateLabel = regexp.MustCompile(`(?i)Valid\s*Up\s*to|Valid\s*Till|Expiry\s*Date|Date\s*of\s*Expiry`)
	dateValue       = regexp.MustCompile(datePattern)
	// The value may follow on the next line.
	labelledValue = regexp.MustCompile(`^\W{0,12}` + datePattern)
)

// Day-first layouts; single-digit day and month parse with the same layout.
var dateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
}

// ParseDate reads a certificate date. Calendar-invalid dates are rejected.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// extractDates reads the issue and expiry dates. A header row carrying both
// labels is matched to the row of values below it by column order.
func extractDates(text string) (issue, expiry certificate.Field[time.Time]) {
	if issue, expiry, ok := tableDates(text); ok {
		return issue, expiry
	}
	return labelledDate(text, issueDateLabel, expiryDateLabel),
		labelledDate(text, expiryDateLabel, issueDateLabel)
}

func tableDates(text string) (issue, expiry certificate.Field[time.Time], ok bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		il := issueDateLabel.FindStringIndex(line)
		el := expiryDateLabel.FindStringIndex(line)
		if il == nil || el == nil || dateValue.MatchString(line) {
			continue
		}
		values := nextLine(lines, i)
		dates := dateValue.FindAllString(values, -1)
		if len(dates) != 2 {
			continue
		}
		first, second := dates[0], dates[1]
		if el[0] < il[0] {
			first, second = second, first
		}
		return dateField(first), dateField(second), true
	}
	return issue, expiry, false
}

// labelledDate returns the date following the first label that has one. A
// next-line value is skipped when the label shares its line with other.
func labelledDate(text string, label, other *regexp.Regexp) certificate.Field[time.Time] {
	for _, loc := range label.FindAllStringIndex(text, -1) {
		m := labelledValue.FindStringSubmatchIndex(text[loc[1]:])
		if m == nil {
			continue
		}
		gap := text[loc[1] : loc[1]+m[2]]
		if strings.Contains(gap, "\n") && other.MatchString(lineAt(text, loc[0])) {
			continue
		}
		return dateField(text[loc[1]+m[2] : loc[1]+m[3]])
	}
	return certificate.Missing[time.Time]()
}

func dateField(s string) certificate.Field[time.Time] {
	t, ok := ParseDate(s)
	if !ok {
		return certificate.Missing[time.Time]()
	}
	return certificate.Found(t)
}

func nextLine(lines []string, i int) string {
	for _, l := range lines[i+1:] {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}

func lineAt(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : pos+end]
}

// Package years extracts release years from the loosely formatted date
// strings found in catalog entries.
//
// Catalog dates arrive in several shapes: RFC 3339 timestamps, bare years,
// and prose dates like "March 3, 1987". Extraction is a total function: a
// date that matches no known shape yields the Unknown sentinel rather than
// an error, and callers treat Unknown as "leave this entry alone".
package years

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unknown is the sentinel year for dates that cannot be interpreted.
const Unknown = "Unknown"

// isoDatePrefix matches the YYYY-MM-DD prefix of RFC 3339 style timestamps.
// Matching the prefix directly keeps extraction locale independent and
// avoids rejecting timestamps with unusual zone or fraction suffixes.
var isoDatePrefix = regexp.MustCompile(`^(\d{4})-\d{2}-\d{2}`)

// onlyDigits matches a string of ASCII digits.
var onlyDigits = regexp.MustCompile(`^\d{4}$`)

// parseLayouts is the ordered list of layouts tried for dates that are
// neither timestamps nor bare years. First successful parse wins.
var parseLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"2006/01/02",
	"01/02/2006",
	"2006-01",
}

// Extract returns the four digit year encoded in raw, or Unknown when no
// strategy recognizes the value. It never fails.
func Extract(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Unknown
	}
	if m := isoDatePrefix.FindStringSubmatch(value); m != nil {
		return validated(m[1])
	}
	if onlyDigits.MatchString(value) {
		return validated(value)
	}
	for _, layout := range parseLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return validated(strconv.Itoa(parsed.Year()))
	}
	return Unknown
}

// IsYearName reports whether name is exactly four ASCII digits. Shelf
// layout detection and partition planning share this rule for recognizing
// year directories.
func IsYearName(name string) bool {
	return onlyDigits.MatchString(name)
}

func validated(year string) string {
	n, err := strconv.Atoi(year)
	if err != nil || n < 1000 || n > 9999 {
		return Unknown
	}
	return year
}

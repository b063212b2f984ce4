// Package identifier normalizes catalog identifiers for duplicate grouping.
//
// Identifiers are underscore-delimited token strings such as
// "msdos_PacMan_1983_RevA". Normalization truncates an identifier to its
// base form (the first N tokens) so that variant releases of the same title
// collapse onto one grouping key. Identifiers with fewer tokens than the
// requested count are returned unchanged and form singleton groups.
package identifier

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator delimits tokens inside an identifier.
const Separator = "_"

// Normalize reduces id to its first tokenCount underscore-delimited tokens.
// Identifiers with tokenCount or fewer tokens are returned unchanged, as is
// the empty string. A non-positive tokenCount disables truncation.
func Normalize(id string, tokenCount int) string {
	if id == "" || tokenCount <= 0 {
		return id
	}
	tokens := strings.Split(id, Separator)
	if len(tokens) <= tokenCount {
		return id
	}
	return strings.Join(tokens[:tokenCount], Separator)
}

// TokenCount reports the number of underscore-delimited tokens in id.
func TokenCount(id string) int {
	if id == "" {
		return 0
	}
	return len(strings.Split(id, Separator))
}

// DisplayTitle converts an identifier into a human-readable title for
// presentation. Underscores become spaces and words are title-cased. The
// result is never used for grouping or path construction.
func DisplayTitle(id string) string {
	if id == "" {
		return ""
	}
	title := strings.TrimSpace(strings.ReplaceAll(id, Separator, " "))
	if title == "" {
		return ""
	}
	return cases.Title(language.Und).String(title)
}

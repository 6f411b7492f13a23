package normalize

import (
	"regexp"
	"strings"

	"github.com/serdal-zonemap/internal/debug"
)

// A token boundary is the start or end of the string or any character that is not
// a letter, digit or underscore. Go's \b only knows ASCII, so "ŞAL" would count as
// ending in the word "AL".
const (
	tokenStart = `(^|[^\p{L}\p{N}_])`
	tokenEnd   = `($|[^\p{L}\p{N}_])`
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

func wordRule(word, replacement string) rule {
	return rule{regexp.MustCompile(tokenStart + word + tokenEnd), "${1}" + replacement + "${2}"}
}

// ordinalRules maps whole-word ordinals to the digits used by the boundary dataset.
// Applied in slice order so the result never depends on map iteration.
var ordinalRules = []rule{
	wordRule("FIRST", "1"),
	wordRule("SECOND", "2"),
	wordRule("THIRD", "3"),
	wordRule("FOURTH", "4"),
	wordRule("FIFTH", "5"),
}

// Article and direction rules are anchored to the start of a token so
// names like "ROYAL CITY" and "ŞAL NAHDA" keep their letters.
var (
	articleRule = rule{regexp.MustCompile(tokenStart + `AL `), "${1}"}
	southRule   = rule{regexp.MustCompile(tokenStart + `SOUTH `), "${1}S "}
)

// apply repeats a rule until the string stops changing. The boundary character is
// consumed by a match, so neighbouring tokens ("AL AL X") need another pass.
// Every rule shortens the string, so this terminates.
func (r rule) apply(s string) string {
	for {
		next := r.pattern.ReplaceAllString(s, r.replacement)
		if next == s {
			return s
		}
		s = next
	}
}

// Normalize canonicalizes a zone name so registry and boundary names can be joined.
// It never fails: empty input yields an empty key.
func Normalize(raw string) string {
	return NormalizeDebug(false, raw)
}

// NormalizeDebug normalizes a zone name with optional debug output
func NormalizeDebug(localDebug bool, raw string) string {
	debug.DebugHeader(localDebug)
	defer debug.DebugFooter(localDebug)

	if raw == "" {
		return ""
	}

	s := strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
	debug.DebugOutput(localDebug, "Input: %s", s)

	for _, r := range ordinalRules {
		s = r.apply(s)
	}
	debug.DebugOutput(localDebug, "After ordinals: %s", s)

	s = articleRule.apply(s)
	debug.DebugOutput(localDebug, "After article removal: %s", s)

	s = southRule.apply(s)
	debug.DebugOutput(localDebug, "After direction abbreviation: %s", s)

	s = strings.TrimSpace(s)
	debug.DebugOutput(localDebug, "Final key: %s", s)

	return s
}

// IsBlank checks if a name is effectively blank after normalization
func IsBlank(name string) bool {
	return Normalize(name) == ""
}

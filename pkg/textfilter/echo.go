package textfilter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultEchoLimit is the longest player fragment, in runes, that may be
// quoted back inside a directive.
const DefaultEchoLimit = 80

// HandleLimit bounds a player handle quoted in a directive.
const HandleLimit = 32

// softenings maps words the narrator must not quote verbatim to milder forms.
var softenings = map[string]string{
	"fuck":     "fudge",
	"shit":     "shoot",
	"damn":     "dang",
	"hell":     "heck",
	"ass":      "butt",
	"bitch":    "jerk",
	"bastard":  "jerk",
	"crap":     "crud",
	"asshole":  "jerk",
	"bullshit": "baloney",
	"goddamn":  "gosh-dang",
}

var (
	softeningRegexes = compileSoftenings()
	markupPattern    = regexp.MustCompile("(?m)(^#+\\s*|#{2,}\\s*|`+|\\*{2,}|<[^>]*>)")
	spacePattern     = regexp.MustCompile(`\s+`)
)

func compileSoftenings() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(softenings))
	for word := range softenings {
		out[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return out
}

// EchoSanitizer prepares player text for quoting inside narrator directives.
// It strips markup that could be read as directive structure, collapses
// whitespace, softens profanity and bounds the length.
type EchoSanitizer struct {
	Limit int // maximum runes; <= 0 means DefaultEchoLimit
}

// NewEchoSanitizer returns a sanitizer with the default length limit.
func NewEchoSanitizer() *EchoSanitizer {
	return &EchoSanitizer{Limit: DefaultEchoLimit}
}

var handleSanitizer = &EchoSanitizer{Limit: HandleLimit}

// SanitizeHandle cleans a player handle the same way as echoed text, with a
// shorter bound.
func SanitizeHandle(handle string) string {
	return handleSanitizer.Sanitize(handle)
}

// Sanitize returns the cleaned fragment, or "" if nothing quotable remains.
func (s *EchoSanitizer) Sanitize(text string) string {
	text = markupPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, `"`, "'")
	text = spacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	for word, re := range softeningRegexes {
		replacement := softenings[word]
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			return preserveCase(match, replacement)
		})
	}

	limit := s.Limit
	if limit <= 0 {
		limit = DefaultEchoLimit
	}
	if utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:limit])) + "..."
	}
	return text
}

// preserveCase applies the case pattern of original to replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}
	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: copy the pattern rune by rune
	originalRunes := []rune(original)
	result := make([]rune, 0, len(replacement))
	for i, r := range replacement {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result = append(result, unicode.ToUpper(r))
		} else {
			result = append(result, unicode.ToLower(r))
		}
	}
	return string(result)
}

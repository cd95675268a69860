package catalog

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnknownLanguage is returned when a language code cannot be resolved
// to an English display name.
var ErrUnknownLanguage = errors.New("unknown language code")

// The book dataset uses ISO 639-2 bibliographic codes for a handful of
// languages. Those never parse as BCP 47 tags, so they are resolved from
// this table before falling back to the standard lookup. "en-US" is kept
// here too: the dataset treats it as plain English.
var legacyLanguageNames = map[string]string{
	"alb":   "Albanian",
	"arm":   "Armenian",
	"baq":   "Basque",
	"bur":   "Burmese",
	"chi":   "Chinese",
	"cze":   "Czech",
	"dut":   "Dutch",
	"en-US": "English",
	"fre":   "French",
	"geo":   "Georgian",
	"ger":   "German",
	"gre":   "Greek",
	"ice":   "Icelandic",
	"mac":   "Macedonian",
	"mao":   "Maori",
	"may":   "Malay",
	"per":   "Persian",
	"rum":   "Romanian",
	"slo":   "Slovak",
	"tib":   "Tibetan",
	"wel":   "Welsh",
}

// LanguageName resolves an ISO 639 code (two- or three-letter, plus the
// legacy bibliographic variants above) to its English display name.
func LanguageName(code string) (string, error) {
	code = strings.TrimSpace(code)
	if name, ok := legacyLanguageNames[code]; ok {
		return name, nil
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", ErrUnknownLanguage
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return "", ErrUnknownLanguage
	}
	return name, nil
}

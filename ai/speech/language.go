package speech

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/hrygo/hackbot/internal/apperr"
)

// DefaultLanguage is used when a caller does not name one.
const DefaultLanguage = "en"

// supportedCodes are the language codes the speech engine accepts.
var supportedCodes = []string{
	"af", "am", "ar", "bg", "bn", "bs", "ca", "cs", "cy", "da", "de", "el",
	"en", "es", "et", "eu", "fi", "fr", "fr-CA", "gl", "gu", "ha", "hi", "hr",
	"hu", "id", "is", "it", "iw", "ja", "jw", "km", "kn", "ko", "la", "lt",
	"lv", "ml", "mr", "ms", "my", "ne", "nl", "no", "pa", "pl", "pt", "pt-PT",
	"ro", "ru", "si", "sk", "sq", "sr", "su", "sv", "sw", "ta", "te", "th",
	"tl", "tr", "uk", "ur", "vi", "yue", "zh", "zh-CN", "zh-TW",
}

// supported maps the canonical BCP 47 form of each code back to the code.
var supported = func() map[string]string {
	m := make(map[string]string, len(supportedCodes))
	for _, code := range supportedCodes {
		m[language.Make(code).String()] = code
	}
	return m
}()

// Language is a resolved speech language.
type Language struct {
	Code string       // engine code, e.g. "en", "pt-PT"
	Tag  language.Tag // parsed BCP 47 tag
}

// Name returns the English display name of the language, e.g. "Portuguese".
func (l Language) Name() string {
	base, _ := l.Tag.Base()
	return display.English.Languages().Name(base)
}

// SupportedLanguages returns the accepted language codes.
func SupportedLanguages() []string {
	return append([]string(nil), supportedCodes...)
}

// ResolveLanguage matches lang against the supported set. The exact tag is
// tried first, then its base language, so "en-US" resolves to "en".
// An empty lang resolves to DefaultLanguage.
func ResolveLanguage(lang string) (Language, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = DefaultLanguage
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return Language{}, fmt.Errorf("%w: %q: %w", apperr.ErrUnsupportedLanguage, lang, err)
	}

	if code, ok := supported[tag.String()]; ok {
		return Language{Code: code, Tag: tag}, nil
	}

	// Only a base the caller named counts; "und" would otherwise guess "en".
	base, confidence := tag.Base()
	if confidence == language.Exact {
		baseTag := language.Make(base.String())
		if code, ok := supported[baseTag.String()]; ok {
			return Language{Code: code, Tag: baseTag}, nil
		}
	}

	return Language{}, fmt.Errorf("%w: %q", apperr.ErrUnsupportedLanguage, lang)
}

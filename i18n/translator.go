package i18n

import (
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
)

// Translator retrieves localized messages for issue and marker codes.
// data provides values substituted into the message (for example, "cell"
// or "jamo").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"ko": {
		"unrecognized_cell":    "알 수 없는 점자: {cell}",
		"composition_failed":   "오류: 한글 조합 실패({jamo})",
		"decomposition_failed": "한글 분해 실패",
		"unmapped_symbol":      "점자표에 없는 문자",
		"ambiguous_cell":       "문맥 없이 해석된 점자",
		"empty":                "입력이 비어 있습니다",
		"invalid_width":        "점형은 6자리여야 합니다",
		"invalid_dot":          "점형은 0과 1로만 구성되어야 합니다",
		"out_of_range":         "점자 유니코드 범위를 벗어났습니다",
		"duplicate_glyph":      "같은 점형이 중복되었습니다",
		"duplicate_key":        "키가 중복되었습니다",
		"invalid_table":        "점자표가 올바르지 않습니다",
	},
	"en": {
		"unrecognized_cell":    "unknown braille: {cell}",
		"composition_failed":   "error: hangul composition failed ({jamo})",
		"decomposition_failed": "hangul decomposition failed",
		"unmapped_symbol":      "character not in tables",
		"ambiguous_cell":       "ambiguous cell resolved without context",
		"empty":                "empty input",
		"invalid_width":        "cell must be 6 digits wide",
		"invalid_dot":          "cell digits must be 0 or 1",
		"out_of_range":         "outside the braille pattern block",
		"duplicate_glyph":      "duplicate glyph",
		"duplicate_key":        "duplicate key",
		"invalid_table":        "invalid table",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(supported)

// Match picks "ko" or "en" for an Accept-Language header or a language tag.
// Anything unrecognized maps to "en".
func Match(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return "en"
	}
	if supported[idx] == language.Korean {
		return "ko"
	}
	return "en"
}

// For returns the built-in Translator for lang ("ko"/"en"). Other values
// are matched as language tags.
func For(lang string) Translator {
	if lang != "ko" && lang != "en" {
		lang = Match(lang)
	}
	return dictTranslator{lang: lang}
}

// translatorBox lets an interface value live in an atomic.Pointer.
type translatorBox struct{ tr Translator }

var currentTranslator atomic.Pointer[translatorBox]

func init() { currentTranslator.Store(&translatorBox{tr: dictTranslator{lang: "ko"}}) }

// SetLanguage switches the built-in Translator language ("ko"/"en"). It is
// safe to call while other goroutines decode; calls already running keep the
// translator they started with.
func SetLanguage(lang string) { currentTranslator.Store(&translatorBox{tr: For(lang)}) }

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). Nil restores the Korean dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "ko"}
	}
	currentTranslator.Store(&translatorBox{tr: tr})
}

// Current returns the package-level Translator.
func Current() Translator { return currentTranslator.Load().tr }

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return Current().Message(code, data) }

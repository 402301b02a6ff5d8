// Package i18n resolves human-readable messages for issue codes.
package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"invalid_type":  "invalid type",
		"required":      "required property missing",
		"unknown_key":   "unknown key",
		"duplicate_key": "duplicate key",
		"too_short":     "too short",
		"too_long":      "too long",
		"invalid_enum":  "value is not one of the allowed values",
		"invalid_const": "value does not equal the required constant",
		"no_match":      "value matches none of the allowed shapes",
		"parse_error":   "parse error",
		"truncated":     "truncated",
	},
	"ja": {
		"invalid_type":  "型が不正です",
		"required":      "必須プロパティが不足しています",
		"unknown_key":   "未知のキーです",
		"duplicate_key": "キーが重複しています",
		"too_short":     "短すぎます",
		"too_long":      "長すぎます",
		"invalid_enum":  "許可された値ではありません",
		"invalid_const": "固定値と一致しません",
		"no_match":      "いずれの形式にも一致しません",
		"parse_error":   "解析エラー",
		"truncated":     "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	if exp := data["expected"]; exp != "" && t.lang == "en" {
		var b strings.Builder
		b.WriteString(msg)
		b.WriteString(": expected ")
		b.WriteString(exp)
		return b.String()
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T returns the message for code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Message(code, data)
}

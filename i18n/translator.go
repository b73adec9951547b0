package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates name
// their parameters in braces; a placeholder without data is dropped.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"required":                  "required property {field} missing",
		"unknown_key":               "unknown key {key}",
		"invalid_type":              "invalid type: expected {expected}, got {got}",
		"invalid_enum":              "value {got} is not one of the allowed values",
		"pattern":                   "value {got} does not match pattern {pattern}",
		"invalid_format":            "value is not a valid {format}",
		"parse_error":               "parse error",
		"duplicate_key":             "duplicate key {key}",
		"truncated":                 "truncated",
		"malformed_timestamp":       "malformed timestamp {got}",
		"embargo_ordering":          "embargo start_time is after end_time",
		"empty_contributors":        "at least one contributor is required",
		"negative_step_number":      "step_number must not be negative",
		"malformed_object_id":       "not a well-formed object identifier",
		"step_ordering":             "step_number {got} is lower than the preceding step {previous}",
		"unknown_step_reference":    "no pipeline step with step_number {step}",
		"temporal_ordering":         "{field} is out of order with {other}",
		"incompatible_spec_version": "spec_version {version} is not compatible with {supported}",
		"etag_mismatch":             "etag does not match the document content",
	},
	"ja": {
		"required":                  "必須プロパティ {field} が不足しています",
		"unknown_key":               "未知のキー {key} です",
		"invalid_type":              "型が不正です（期待: {expected}、実際: {got}）",
		"invalid_enum":              "値 {got} は許可された値ではありません",
		"pattern":                   "値 {got} がパターン {pattern} に一致しません",
		"invalid_format":            "{format} の形式ではありません",
		"parse_error":               "解析エラー",
		"duplicate_key":             "キー {key} が重複しています",
		"truncated":                 "打ち切られました",
		"malformed_timestamp":       "日時 {got} を解釈できません",
		"embargo_ordering":          "エンバーゴの開始日時が終了日時より後です",
		"empty_contributors":        "貢献者が一人以上必要です",
		"negative_step_number":      "step_number は負にできません",
		"malformed_object_id":       "オブジェクト識別子の形式が不正です",
		"step_ordering":             "step_number {got} が直前のステップ {previous} より小さいです",
		"unknown_step_reference":    "step_number {step} のパイプラインステップがありません",
		"temporal_ordering":         "{field} と {other} の前後関係が不正です",
		"incompatible_spec_version": "spec_version {version} は {supported} と互換性がありません",
		"etag_mismatch":             "etag が文書の内容と一致しません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return expand(tmpl, data)
}

func expand(tmpl string, data map[string]string) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	b := &strings.Builder{}
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			b.WriteString(tmpl)
			break
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			b.WriteString(tmpl)
			break
		}
		b.WriteString(tmpl[:i])
		b.WriteString(data[tmpl[i+1:i+j]])
		tmpl = tmpl[i+j+1:]
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	return strings.TrimSuffix(strings.TrimSuffix(out, ":"), " ")
}

var currentTranslator atomic.Value

func init() { currentTranslator.Store(Translator(dictTranslator{lang: "en"})) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator.Store(Translator(dictTranslator{lang: lang}))
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(tr)
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().(Translator).Message(code, data)
}

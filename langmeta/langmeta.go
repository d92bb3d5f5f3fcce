// Package langmeta provides a language metadata registry (English and
// native names) used in review prompts and CLI output.
package langmeta

import "strings"

// Meta describes a language.
type Meta struct {
	// English is the language name in English, used in prompts.
	English string
	// Native is the language name in the language itself.
	Native string
}

// Registry contains canonical language metadata keyed by BCP 47 code.
// Locale variants are resolved in Resolve via normalization and base
// fallback.
var Registry = map[string]Meta{
	"ar": {English: "Arabic", Native: "العربية"},
	"bn": {English: "Bengali", Native: "বাংলা"},
	"de": {English: "German", Native: "Deutsch"},
	"en": {English: "English", Native: "English"},
	"es": {English: "Spanish", Native: "Español"},
	"fr": {English: "French", Native: "Français"},
	"hi": {English: "Hindi", Native: "हिन्दी"},
	"id": {English: "Indonesian", Native: "Bahasa Indonesia"},
	"it": {English: "Italian", Native: "Italiano"},
	"ja": {English: "Japanese", Native: "日本語"},
	"ko": {English: "Korean", Native: "한국어"},
	"ml": {English: "Malayalam", Native: "മലയാളം"},
	"ne": {English: "Nepali", Native: "नेपाली"},
	"pt": {English: "Portuguese", Native: "Português"},
	"ru": {English: "Russian", Native: "Русский"},
	"si": {English: "Sinhala", Native: "සිංහල"},
	"ta": {English: "Tamil", Native: "தமிழ்"},
	"th": {English: "Thai", Native: "ไทย"},
	"tr": {English: "Turkish", Native: "Türkçe"},
	"uk": {English: "Ukrainian", Native: "Українська"},
	"vi": {English: "Vietnamese", Native: "Tiếng Việt"},
	"zh": {English: "Chinese", Native: "中文"},
}

// Normalize converts "si_LK", "SI-lk" and similar spellings to "si-LK".
func Normalize(code string) string {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	base, region, found := strings.Cut(code, "-")
	base = strings.ToLower(base)
	if !found || region == "" {
		return base
	}
	return base + "-" + strings.ToUpper(region)
}

// Resolve returns metadata for code, falling back to the base language.
func Resolve(code string) (Meta, bool) {
	norm := Normalize(code)
	if m, ok := Registry[norm]; ok {
		return m, true
	}
	base, _, _ := strings.Cut(norm, "-")
	if m, ok := Registry[base]; ok {
		return m, true
	}
	return Meta{}, false
}

// EnglishName returns the English name of code, or the code itself when
// unknown.
func EnglishName(code string) string {
	if m, ok := Resolve(code); ok {
		return m.English
	}
	return code
}

// NativeName returns the native name of code, or the code itself when
// unknown.
func NativeName(code string) string {
	if m, ok := Resolve(code); ok {
		return m.Native
	}
	return code
}

// Package i18n provides the fixed user-facing strings of revkit in the
// primary UI language and in the secondary (annotation) language.
//
// It wraps the gotext library. Translations are embedded in the binary via
// //go:embed and loaded at startup via Init and InitSecondary.
//
// Usage:
//
//	i18n.Init("")          // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	i18n.InitSecondary("si")
//	fmt.Println(i18n.T("No issues found."))
//	fmt.Println(i18n.Dual("No issues found."))  // "No issues found. | ගැටළු හමු නොවීය."
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the translation files.
// Directory structure: locales/{lang}/LC_MESSAGES/revkit.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for revkit.
const domain = "revkit"

// dualSeparator joins the primary and secondary rendering of a message.
const dualSeparator = " | "

var (
	// po translates into the primary UI language.
	po *gotext.Locale
	// secondary translates into the annotation language.
	secondary *gotext.Locale
)

func newLocale(lang string) *gotext.Locale {
	l := gotext.NewLocaleFSWithPath(lang, locales, "locales")
	l.AddDomain(domain)
	l.SetDomain(domain)
	return l
}

// Init initializes the primary UI language. If lang is empty, it
// auto-detects from LANGUAGE, LC_ALL, LC_MESSAGES, LANG (in that order,
// matching GNU gettext behavior).
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	po = newLocale(lang)
}

// InitSecondary initializes the secondary language used by Dual. An empty
// lang disables the secondary rendering.
func InitSecondary(lang string) {
	if lang == "" {
		secondary = nil
		return
	}
	secondary = newLocale(lang)
}

// T translates a string. If no translation is available, returns the
// original string unchanged (standard gettext passthrough behavior).
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a string with plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// Dual formats msgid with args in the primary language and, when the
// secondary locale has a different rendering, appends it.
func Dual(msgid string, args ...any) string {
	primary := sprintf(T(msgid), args...)
	if secondary == nil {
		return primary
	}
	other := sprintf(secondary.Get(msgid), args...)
	if other == primary || other == sprintf(msgid, args...) {
		return primary
	}
	return primary + dualSeparator + other
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// detectLanguage reads environment variables to determine the user's
// preferred language, following GNU gettext conventions.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := os.Getenv(env); val != "" {
			// LANGUAGE can be a colon-separated list; take the first
			if env == "LANGUAGE" {
				parts := strings.SplitN(val, ":", 2)
				val = parts[0]
			}
			// Strip encoding suffix (e.g. "si_LK.UTF-8" -> "si_LK")
			if idx := strings.IndexByte(val, '.'); idx >= 0 {
				val = val[:idx]
			}
			if val == "C" || val == "POSIX" || val == "" {
				continue
			}
			return val
		}
	}
	return "en"
}

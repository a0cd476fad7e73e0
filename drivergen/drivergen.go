// Package drivergen implements the driver emitter (component I): it
// substitutes two literal placeholder strings in an opaque per-language
// template with generated token-enum and name-to-token-mapping text.
//
// Grounded on the teacher's driver/template.go go:embed pattern, but
// generalized from Go-source templating (go/parser + text/template) down
// to the spec's two-placeholder literal string substitution, since the
// target languages here are Python and JavaScript rather than Go.
package drivergen

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed templates/driver.py
var pythonTemplate string

//go:embed templates/driver.js
var javascriptTemplate string

// Language identifies a driver target.
type Language int

const (
	Python Language = iota
	Javascript
)

const (
	tokenEntriesMarker      = "__TOKEN_ENTRIES__"
	stateTokenMappingMarker = "__STATE_TOKEN_MAPPING__"
)

// ParseLanguage maps the CLI-facing names to a Language.
func ParseLanguage(s string) (Language, error) {
	switch s {
	case "python":
		return Python, nil
	case "javascript":
		return Javascript, nil
	default:
		return 0, fmt.Errorf("unrecognized driver language: %q", s)
	}
}

// FileName returns the output file name for lang.
func (l Language) FileName() string {
	switch l {
	case Python:
		return "driver.py"
	case Javascript:
		return "driver.js"
	default:
		panic("drivergen: invalid Language")
	}
}

// Emit substitutes both placeholders in lang's template and returns the
// finished driver source. tokenOrder is the full declaration-order token
// list including the trailing "!" ignore sentinel, which is filtered out
// before substitution per spec.md §4.I.
func Emit(lang Language, tokenOrder []string) (string, error) {
	var tmpl string
	switch lang {
	case Python:
		tmpl = pythonTemplate
	case Javascript:
		tmpl = javascriptTemplate
	default:
		return "", fmt.Errorf("unrecognized driver language")
	}

	names := make([]string, 0, len(tokenOrder))
	for _, name := range tokenOrder {
		if name == "!" {
			continue
		}
		names = append(names, name)
	}

	entries := tokenEntries(lang, names)
	mapping := stateTokenMapping(lang, names)

	out := strings.Replace(tmpl, tokenEntriesMarker, entries, 1)
	out = strings.Replace(out, stateTokenMappingMarker, mapping, 1)
	return out, nil
}

func indentOf(lang Language) string {
	switch lang {
	case Python:
		return "\n    "
	case Javascript:
		return "\n  "
	default:
		return "\n"
	}
}

func tokenEntries(lang Language, names []string) string {
	lines := make([]string, len(names))
	for i, name := range names {
		upper := strings.ToUpper(name)
		switch lang {
		case Python:
			lines[i] = fmt.Sprintf("%s = %q", upper, upper)
		case Javascript:
			lines[i] = fmt.Sprintf("%s: %q,", upper, upper)
		}
	}
	return strings.Join(lines, indentOf(lang))
}

func stateTokenMapping(lang Language, names []string) string {
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%q: TokenKind.%s,", name, strings.ToUpper(name))
	}
	return strings.Join(lines, indentOf(lang))
}

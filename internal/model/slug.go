package model

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// Titleize turns a slug or file base name into a display title.
func Titleize(slug string) string {
	s := strings.ReplaceAll(strings.ReplaceAll(slug, "-", " "), "_", " ")
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

// CleanRoute normalizes a route to a rooted, slash-terminated path.
func CleanRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" || route == "/" {
		return "/"
	}
	route = path.Clean("/" + route)
	if route == "/" {
		return route
	}
	return route + "/"
}

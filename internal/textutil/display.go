package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// TitleCase converts a string to title case using Unicode-aware rules.
func TitleCase(value string) string {
	return titleCaser.String(value)
}

// HumanizeStem derives a display label from an archive filename stem:
// underscores and hyphens become spaces and the result is title-cased.
// "123_main_st" becomes "123 Main St".
func HumanizeStem(stem string) string {
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return ""
	}
	replaced := strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	fields := strings.Fields(replaced)
	return TitleCase(strings.Join(fields, " "))
}

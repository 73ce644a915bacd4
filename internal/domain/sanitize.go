package domain

import "strings"

// SanitizeNumeric cleans raw keystrokes for a decimal field: periods become
// commas, only digits and one comma survive, and the comma cannot lead.
func SanitizeNumeric(raw string) string {
	var b strings.Builder
	commaSeen := false
	for _, r := range strings.ReplaceAll(raw, ".", ",") {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',':
			if commaSeen || b.Len() == 0 {
				continue
			}
			commaSeen = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

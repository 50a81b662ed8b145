package shared

import "strings"

// PersonName joins the non-empty name parts with single spaces
func PersonName(first, middle, last string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{first, middle, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// DisplayName returns the corporation name when one is given, otherwise the
// person name built from the individual parts
func DisplayName(corporation, first, middle, last string) string {
	if c := strings.TrimSpace(corporation); c != "" {
		return c
	}
	return PersonName(first, middle, last)
}

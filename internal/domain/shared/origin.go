package shared

import "strings"

// OriginFields maps a descriptive field to the column holding its text in
// the record's original language
var OriginFields = map[string]string{
	"title":            "title_original",
	"contents_summary": "contents_summary_original",
	"history":          "history_original",
	"name":             "name_original",
}

// OriginalText keeps the populated original-language values, keyed by
// their original column name. Fields missing from OriginFields are ignored.
func OriginalText(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for field, v := range values {
		col, ok := OriginFields[field]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		out[col] = v
	}
	return out
}

// OriginSource is implemented by records carrying original-language text
type OriginSource interface {
	OriginalLocaleCode() string
	OriginalValues() map[string]string
}

package common

import "github.com/ams/backend/internal/domain/shared"

// OriginalResponse lists the populated original-language fields of a record
type OriginalResponse struct {
	Locale string            `json:"locale,omitempty"`
	Fields map[string]string `json:"fields"`
}

// Original builds the original-language block of a read DTO, or nil when
// the record has no original-language text
func Original(src shared.OriginSource) *OriginalResponse {
	fields := shared.OriginalText(src.OriginalValues())
	if len(fields) == 0 {
		return nil
	}
	return &OriginalResponse{Locale: src.OriginalLocaleCode(), Fields: fields}
}

package authority

import (
	"time"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/authority"
	"github.com/google/uuid"
)

// IsaarRequest is the write DTO for creating and updating an authority record
type IsaarRequest struct {
	Name              string   `json:"name" binding:"required,min=1,max=300"`
	NameOriginal      string   `json:"name_original" binding:"max=300"`
	OriginalLocale    string   `json:"original_locale" binding:"omitempty,min=2,max=10"`
	ParallelNames     []string `json:"parallel_names" binding:"max=20,dive,max=300"`
	Type              string   `json:"type" binding:"required,oneof=corporate person family"`
	DateExistenceFrom string   `json:"date_existence_from" binding:"max=10"`
	DateExistenceTo   string   `json:"date_existence_to" binding:"max=10"`
	History           string   `json:"history" binding:"max=20000"`
	HistoryOriginal   string   `json:"history_original" binding:"max=20000"`
}

func (r IsaarRequest) description() authority.Description {
	return authority.Description{
		Name:              r.Name,
		NameOriginal:      r.NameOriginal,
		OriginalLocale:    r.OriginalLocale,
		ParallelNames:     r.ParallelNames,
		Type:              authority.EntityType(r.Type),
		DateExistenceFrom: r.DateExistenceFrom,
		DateExistenceTo:   r.DateExistenceTo,
		History:           r.History,
		HistoryOriginal:   r.HistoryOriginal,
	}
}

// ListFilter are the authority record list query parameters
type ListFilter struct {
	common.ListParams
	Type   string `form:"type" binding:"omitempty,oneof=corporate person family"`
	Status string `form:"status" binding:"omitempty,oneof=draft final"`
}

// IsaarResponse is the read DTO of an authority record
type IsaarResponse struct {
	ID                uuid.UUID                `json:"id"`
	Name              string                   `json:"name"`
	ParallelNames     []string                 `json:"parallel_names"`
	Type              string                   `json:"type"`
	DateExistenceFrom string                   `json:"date_existence_from,omitempty"`
	DateExistenceTo   string                   `json:"date_existence_to,omitempty"`
	History           string                   `json:"history,omitempty"`
	Status            string                   `json:"status"`
	Original          *common.OriginalResponse `json:"original,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
	Version           int                      `json:"version"`
}

// IsaarListResponse is an authority record row in list results
type IsaarListResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Status string    `json:"status"`
}

// ToIsaarResponse maps an authority record to its read DTO
func ToIsaarResponse(r *authority.IsaarRecord) *IsaarResponse {
	names := r.ParallelNames
	if names == nil {
		names = []string{}
	}
	return &IsaarResponse{
		ID:                r.ID,
		Name:              r.Name,
		ParallelNames:     names,
		Type:              string(r.Type),
		DateExistenceFrom: r.DateExistenceFrom,
		DateExistenceTo:   r.DateExistenceTo,
		History:           r.History,
		Status:            string(r.Status),
		Original:          common.Original(r),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Version:           r.Version,
	}
}

// ToIsaarListResponse maps an authority record to its list row
func ToIsaarListResponse(r *authority.IsaarRecord) IsaarListResponse {
	return IsaarListResponse{ID: r.ID, Name: r.Name, Type: string(r.Type), Status: string(r.Status)}
}

package archivalunit

import (
	"time"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/google/uuid"
)

// DescriptionFields are the editable descriptive fields shared by the
// create and update requests
type DescriptionFields struct {
	Title          string      `json:"title" binding:"required,min=1,max=300"`
	TitleOriginal  string      `json:"title_original" binding:"max=300"`
	OriginalLocale string      `json:"original_locale" binding:"omitempty,min=2,max=10"`
	DateFrom       int         `json:"date_from" binding:"omitempty,min=1000,max=2999"`
	DateTo         int         `json:"date_to" binding:"omitempty,min=1000,max=2999"`
	CreatorIDs     []uuid.UUID `json:"creator_ids" binding:"max=50"`
}

func (d DescriptionFields) description() archivalunit.Description {
	return archivalunit.Description{
		Title:          d.Title,
		TitleOriginal:  d.TitleOriginal,
		OriginalLocale: d.OriginalLocale,
		DateFrom:       d.DateFrom,
		DateTo:         d.DateTo,
		CreatorIDs:     d.CreatorIDs,
	}
}

// CreateArchivalUnitRequest creates a fonds, subfonds or series. Number is
// the unit's own number at its level; subfonds and series need a parent.
type CreateArchivalUnitRequest struct {
	Level    string     `json:"level" binding:"required,oneof=F SF S"`
	ParentID *uuid.UUID `json:"parent_id"`
	Number   int        `json:"number" binding:"min=0,max=9999"`
	DescriptionFields
}

// UpdateArchivalUnitRequest replaces the description of a unit
type UpdateArchivalUnitRequest struct {
	DescriptionFields
}

// ListFilter are the archival unit list query parameters
type ListFilter struct {
	common.ListParams
	Level    string     `form:"level" binding:"omitempty,oneof=F SF S"`
	Status   string     `form:"status" binding:"omitempty,oneof=draft final"`
	Fonds    int        `form:"fonds" binding:"omitempty,min=1"`
	ParentID *uuid.UUID `form:"parent_id"`
}

// ArchivalUnitResponse is the read DTO of an archival unit
type ArchivalUnitResponse struct {
	ID            uuid.UUID                `json:"id"`
	ReferenceCode string                   `json:"reference_code"`
	Level         string                   `json:"level"`
	Fonds         int                      `json:"fonds"`
	Subfonds      int                      `json:"subfonds"`
	Series        int                      `json:"series"`
	ParentID      *uuid.UUID               `json:"parent_id,omitempty"`
	Title         string                   `json:"title"`
	DateFrom      int                      `json:"date_from,omitempty"`
	DateTo        int                      `json:"date_to,omitempty"`
	CreatorIDs    []uuid.UUID              `json:"creator_ids"`
	Status        string                   `json:"status"`
	Original      *common.OriginalResponse `json:"original,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	Version       int                      `json:"version"`
}

// ArchivalUnitListResponse is an archival unit row in list results
type ArchivalUnitListResponse struct {
	ID            uuid.UUID `json:"id"`
	ReferenceCode string    `json:"reference_code"`
	Level         string    `json:"level"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
}

// ToArchivalUnitResponse maps a unit to its read DTO
func ToArchivalUnitResponse(u *archivalunit.ArchivalUnit) *ArchivalUnitResponse {
	creators := u.CreatorIDs
	if creators == nil {
		creators = []uuid.UUID{}
	}
	return &ArchivalUnitResponse{
		ID:            u.ID,
		ReferenceCode: u.ReferenceCode(),
		Level:         string(u.Level),
		Fonds:         u.Fonds,
		Subfonds:      u.Subfonds,
		Series:        u.Series,
		ParentID:      u.ParentID,
		Title:         u.Title,
		DateFrom:      u.DateFrom,
		DateTo:        u.DateTo,
		CreatorIDs:    creators,
		Status:        string(u.Status),
		Original:      common.Original(u),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		Version:       u.Version,
	}
}

// ToArchivalUnitListResponse maps a unit to its list row
func ToArchivalUnitListResponse(u *archivalunit.ArchivalUnit) ArchivalUnitListResponse {
	return ArchivalUnitListResponse{
		ID:            u.ID,
		ReferenceCode: u.ReferenceCode(),
		Level:         string(u.Level),
		Title:         u.Title,
		Status:        string(u.Status),
	}
}

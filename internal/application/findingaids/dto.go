package findingaids

import (
	"time"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/google/uuid"
)

// DescriptionFields are the editable descriptive fields shared by the
// create and update requests
type DescriptionFields struct {
	Title                   string   `json:"title" binding:"required,min=1,max=500"`
	TitleOriginal           string   `json:"title_original" binding:"max=500"`
	TitleGiven              bool     `json:"title_given"`
	OriginalLocale          string   `json:"original_locale" binding:"omitempty,min=2,max=10"`
	DateFrom                string   `json:"date_from" binding:"max=10"`
	DateTo                  string   `json:"date_to" binding:"max=10"`
	ContentsSummary         string   `json:"contents_summary" binding:"max=20000"`
	ContentsSummaryOriginal string   `json:"contents_summary_original" binding:"max=20000"`
	Languages               []string `json:"languages" binding:"max=20,dive,min=2,max=3"`
}

func (d DescriptionFields) description() findingaids.Description {
	return findingaids.Description{
		Title:                   d.Title,
		TitleOriginal:           d.TitleOriginal,
		TitleGiven:              d.TitleGiven,
		OriginalLocale:          d.OriginalLocale,
		DateFrom:                d.DateFrom,
		DateTo:                  d.DateTo,
		ContentsSummary:         d.ContentsSummary,
		ContentsSummaryOriginal: d.ContentsSummaryOriginal,
		Languages:               d.Languages,
	}
}

// CreateFindingAidsRequest describes a new folder or item. A zero folder
// number for a folder, or a zero sequence number for an item, takes the
// next free number.
type CreateFindingAidsRequest struct {
	ContainerID uuid.UUID `json:"container_id" binding:"required"`
	Level       string    `json:"level" binding:"required,oneof=F I"`
	FolderNo    int       `json:"folder_no" binding:"omitempty,min=1"`
	SequenceNo  int       `json:"sequence_no" binding:"omitempty,min=1"`
	DescriptionFields
}

// UpdateFindingAidsRequest replaces the description of a record
type UpdateFindingAidsRequest struct {
	DescriptionFields
}

// ConfidentialRequest sets the confidential flag
type ConfidentialRequest struct {
	Confidential *bool `json:"confidential" binding:"required"`
}

// ListFilter are the finding aids list query parameters
type ListFilter struct {
	common.ListParams
	ArchivalUnitID *uuid.UUID `form:"archival_unit_id"`
	ContainerID    *uuid.UUID `form:"container_id"`
	Level          string     `form:"level" binding:"omitempty,oneof=F I"`
	Published      *bool      `form:"published"`
	Confidential   *bool      `form:"confidential"`
}

// FindingAidsResponse is the read DTO of a finding aids record
type FindingAidsResponse struct {
	ID              uuid.UUID                `json:"id"`
	ReferenceCode   string                   `json:"reference_code"`
	Level           string                   `json:"level"`
	ArchivalUnitID  uuid.UUID                `json:"archival_unit_id"`
	ContainerID     uuid.UUID                `json:"container_id"`
	FolderNo        int                      `json:"folder_no"`
	SequenceNo      int                      `json:"sequence_no,omitempty"`
	Title           string                   `json:"title"`
	TitleGiven      bool                     `json:"title_given"`
	DateFrom        string                   `json:"date_from,omitempty"`
	DateTo          string                   `json:"date_to,omitempty"`
	ContentsSummary string                   `json:"contents_summary,omitempty"`
	Languages       []string                 `json:"languages"`
	Confidential    bool                     `json:"confidential"`
	Published       bool                     `json:"published"`
	PublishedAt     *time.Time               `json:"published_at,omitempty"`
	Original        *common.OriginalResponse `json:"original,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Version         int                      `json:"version"`
}

// FindingAidsListResponse is a finding aids row in list results
type FindingAidsListResponse struct {
	ID            uuid.UUID `json:"id"`
	ReferenceCode string    `json:"reference_code"`
	Level         string    `json:"level"`
	Title         string    `json:"title"`
	DateFrom      string    `json:"date_from,omitempty"`
	DateTo        string    `json:"date_to,omitempty"`
	Published     bool      `json:"published"`
	Confidential  bool      `json:"confidential"`
}

// ToFindingAidsResponse maps a record to its read DTO
func ToFindingAidsResponse(e *findingaids.FindingAidsEntity) *FindingAidsResponse {
	langs := e.Languages
	if langs == nil {
		langs = []string{}
	}
	return &FindingAidsResponse{
		ID:              e.ID,
		ReferenceCode:   e.ReferenceCode,
		Level:           string(e.Level),
		ArchivalUnitID:  e.ArchivalUnitID,
		ContainerID:     e.ContainerID,
		FolderNo:        e.FolderNo,
		SequenceNo:      e.SequenceNo,
		Title:           e.Title,
		TitleGiven:      e.TitleGiven,
		DateFrom:        e.DateFrom,
		DateTo:          e.DateTo,
		ContentsSummary: e.ContentsSummary,
		Languages:       langs,
		Confidential:    e.Confidential,
		Published:       e.Published,
		PublishedAt:     e.PublishedAt,
		Original:        common.Original(e),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		Version:         e.Version,
	}
}

// ToFindingAidsListResponse maps a record to its list row
func ToFindingAidsListResponse(e *findingaids.FindingAidsEntity) FindingAidsListResponse {
	return FindingAidsListResponse{
		ID:            e.ID,
		ReferenceCode: e.ReferenceCode,
		Level:         string(e.Level),
		Title:         e.Title,
		DateFrom:      e.DateFrom,
		DateTo:        e.DateTo,
		Published:     e.Published,
		Confidential:  e.Confidential,
	}
}

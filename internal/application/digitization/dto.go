package digitization

import (
	"time"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/digitization"
	"github.com/google/uuid"
)

// RegisterDigitalVersionRequest registers a digitized container or finding
// aids record. An empty identifier is derived from the target's reference code.
type RegisterDigitalVersionRequest struct {
	Level               string     `json:"level" binding:"required,oneof=container finding_aids"`
	ContainerID         *uuid.UUID `json:"container_id" binding:"required_if=Level container"`
	FindingAidsEntityID *uuid.UUID `json:"finding_aids_entity_id" binding:"required_if=Level finding_aids"`
	Identifier          string     `json:"identifier" binding:"max=150"`
	Filename            string     `json:"filename" binding:"required,max=255"`
	ContentType         string     `json:"content_type" binding:"max=100"`
	AvailableOnline     bool       `json:"available_online"`
}

// AvailabilityRequest switches online access
type AvailabilityRequest struct {
	AvailableOnline *bool `json:"available_online" binding:"required"`
}

// ListFilter are the digital version list query parameters
type ListFilter struct {
	common.ListParams
	Level               string     `form:"level" binding:"omitempty,oneof=container finding_aids"`
	ContainerID         *uuid.UUID `form:"container_id"`
	FindingAidsEntityID *uuid.UUID `form:"finding_aids_entity_id"`
	AvailableOnline     *bool      `form:"available_online"`
}

// DigitalVersionResponse is the read DTO of a digital version
type DigitalVersionResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Level               string     `json:"level"`
	ContainerID         *uuid.UUID `json:"container_id,omitempty"`
	FindingAidsEntityID *uuid.UUID `json:"finding_aids_entity_id,omitempty"`
	Identifier          string     `json:"identifier"`
	Filename            string     `json:"filename"`
	ContentType         string     `json:"content_type,omitempty"`
	AvailableOnline     bool       `json:"available_online"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Version             int        `json:"version"`
}

// RegisterResponse carries the registered version and where to upload its file
type RegisterResponse struct {
	DigitalVersionResponse
	UploadURL string `json:"upload_url"`
}

// DownloadResponse is a time-limited download link
type DownloadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ToDigitalVersionResponse maps a digital version to its read DTO
func ToDigitalVersionResponse(v *digitization.DigitalVersion) DigitalVersionResponse {
	return DigitalVersionResponse{
		ID:                  v.ID,
		Level:               string(v.Level),
		ContainerID:         v.ContainerID,
		FindingAidsEntityID: v.FindingAidsEntityID,
		Identifier:          v.Identifier,
		Filename:            v.Filename,
		ContentType:         v.ContentType,
		AvailableOnline:     v.AvailableOnline,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
		Version:             v.Version,
	}
}

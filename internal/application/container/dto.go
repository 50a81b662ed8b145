package container

import (
	"time"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/container"
	"github.com/google/uuid"
)

// CreateContainerRequest adds a container to a series. A zero container
// number takes the next free number.
type CreateContainerRequest struct {
	ArchivalUnitID uuid.UUID `json:"archival_unit_id" binding:"required"`
	ContainerNo    int       `json:"container_no" binding:"omitempty,min=1"`
	CarrierType    string    `json:"carrier_type" binding:"required,max=50"`
	Barcode        string    `json:"barcode" binding:"max=50"`
}

// UpdateContainerRequest changes the physical description of a container
type UpdateContainerRequest struct {
	CarrierType string `json:"carrier_type" binding:"required,max=50"`
	Barcode     string `json:"barcode" binding:"max=50"`
}

// ListFilter are the container list query parameters
type ListFilter struct {
	common.ListParams
	ArchivalUnitID *uuid.UUID `form:"archival_unit_id"`
	CarrierType    string     `form:"carrier_type" binding:"max=50"`
}

// ContainerResponse is the read DTO of a container
type ContainerResponse struct {
	ID             uuid.UUID `json:"id"`
	ReferenceCode  string    `json:"reference_code"`
	ArchivalUnitID uuid.UUID `json:"archival_unit_id"`
	ContainerNo    int       `json:"container_no"`
	CarrierType    string    `json:"carrier_type"`
	Barcode        string    `json:"barcode,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

// ContainerListResponse is a container row in list results
type ContainerListResponse struct {
	ID            uuid.UUID `json:"id"`
	ReferenceCode string    `json:"reference_code"`
	ContainerNo   int       `json:"container_no"`
	CarrierType   string    `json:"carrier_type"`
	Barcode       string    `json:"barcode,omitempty"`
}

// ToContainerResponse maps a container to its read DTO
func ToContainerResponse(c *container.Container) *ContainerResponse {
	return &ContainerResponse{
		ID:             c.ID,
		ReferenceCode:  c.ReferenceCode,
		ArchivalUnitID: c.ArchivalUnitID,
		ContainerNo:    c.ContainerNo,
		CarrierType:    c.CarrierType,
		Barcode:        c.Barcode,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}

// ToContainerListResponse maps a container to its list row
func ToContainerListResponse(c *container.Container) ContainerListResponse {
	return ContainerListResponse{
		ID:            c.ID,
		ReferenceCode: c.ReferenceCode,
		ContainerNo:   c.ContainerNo,
		CarrierType:   c.CarrierType,
		Barcode:       c.Barcode,
	}
}

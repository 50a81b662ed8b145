package container

import (
	"fmt"
	"strings"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeContainer identifies containers in events and outbox rows
const AggregateTypeContainer = "Container"

// Container is a physical carrier (box, tape, disc) holding folders of a series
type Container struct {
	shared.BaseAggregateRoot
	ArchivalUnitID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_container_unit_no,priority:1"`
	ContainerNo    int       `gorm:"not null;uniqueIndex:idx_container_unit_no,priority:2"`
	CarrierType    string    `gorm:"type:varchar(50);not null"`
	Barcode        string    `gorm:"type:varchar(50);index"`
	ReferenceCode  string    `gorm:"type:varchar(100);not null;index"`
}

// TableName returns the table name for GORM
func (Container) TableName() string {
	return "containers"
}

// NewContainer creates container number no in the series identified by
// unitID, whose reference code is unitRef
func NewContainer(unitID uuid.UUID, unitRef string, no int, carrierType, barcode string) (*Container, error) {
	if unitID == uuid.Nil || unitRef == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Container must belong to a series")
	}
	if no < 1 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Container number must be positive")
	}
	c := &Container{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ArchivalUnitID:    unitID,
		ContainerNo:       no,
		ReferenceCode:     ReferenceCode(unitRef, no),
	}
	if err := c.apply(carrierType, barcode); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the physical description. Finding aids in the container
// carry its carrier type in the catalog, so they are reindexed.
func (c *Container) Update(carrierType, barcode string) error {
	if err := c.apply(carrierType, barcode); err != nil {
		return err
	}
	c.IncrementVersion()
	c.AddDomainEvent(NewContainerUpdatedEvent(c))
	return nil
}

// MarkDeleted records the deletion for the catalog pipeline
func (c *Container) MarkDeleted() {
	c.AddDomainEvent(NewContainerDeletedEvent(c))
}

// ReferenceCode formats a container reference code, e.g. HU OSA 300-1-2:14
func ReferenceCode(unitRef string, no int) string {
	return fmt.Sprintf("%s:%d", unitRef, no)
}

func (c *Container) apply(carrierType, barcode string) error {
	carrierType = strings.TrimSpace(carrierType)
	if carrierType == "" {
		return shared.NewDomainError("INVALID_CARRIER", "Carrier type is required")
	}
	c.CarrierType = carrierType
	c.Barcode = strings.TrimSpace(barcode)
	return nil
}

package digitization

import (
	"path"
	"strings"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeDigitalVersion identifies digital versions in events and outbox rows
const AggregateTypeDigitalVersion = "DigitalVersion"

// Level is what a digital version reproduces
type Level string

const (
	LevelContainer   Level = "container"
	LevelFindingAids Level = "finding_aids"
)

// DigitalVersion is a digitized copy of a container or a finding aids record
type DigitalVersion struct {
	shared.BaseAggregateRoot
	Level               Level      `gorm:"type:varchar(20);not null"`
	ContainerID         *uuid.UUID `gorm:"type:uuid;index"`
	FindingAidsEntityID *uuid.UUID `gorm:"type:uuid;index"`
	Identifier          string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	Filename            string     `gorm:"type:varchar(255);not null"`
	ContentType         string     `gorm:"type:varchar(100)"`
	StorageKey          string     `gorm:"type:varchar(500);not null"`
	AvailableOnline     bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (DigitalVersion) TableName() string {
	return "digital_versions"
}

// File describes the stored object
type File struct {
	Identifier  string
	Filename    string
	ContentType string
}

// NewContainerVersion registers a digitized container
func NewContainerVersion(containerID uuid.UUID, f File, online bool) (*DigitalVersion, error) {
	if containerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARGET", "Container is required")
	}
	return newVersion(LevelContainer, &containerID, nil, f, online)
}

// NewFindingAidsVersion registers a digitized folder or item
func NewFindingAidsVersion(entityID uuid.UUID, f File, online bool) (*DigitalVersion, error) {
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARGET", "Finding aids record is required")
	}
	return newVersion(LevelFindingAids, nil, &entityID, f, online)
}

func newVersion(level Level, containerID, entityID *uuid.UUID, f File, online bool) (*DigitalVersion, error) {
	identifier := strings.TrimSpace(f.Identifier)
	if identifier == "" {
		return nil, shared.NewDomainError("INVALID_IDENTIFIER", "Identifier is required")
	}
	filename := path.Base(strings.TrimSpace(f.Filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Filename is required")
	}
	v := &DigitalVersion{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Level:               level,
		ContainerID:         containerID,
		FindingAidsEntityID: entityID,
		Identifier:          identifier,
		Filename:            filename,
		ContentType:         f.ContentType,
		AvailableOnline:     online,
	}
	v.StorageKey = StorageKey(level, identifier, filename)
	v.AddDomainEvent(NewDigitalVersionCreatedEvent(v))
	return v, nil
}

// SetAvailability switches online access on or off
func (v *DigitalVersion) SetAvailability(online bool) {
	if v.AvailableOnline == online {
		return
	}
	v.AvailableOnline = online
	v.IncrementVersion()
	v.AddDomainEvent(NewDigitalVersionUpdatedEvent(v))
}

// MarkDeleted records the deletion so the reproduced record is reindexed
func (v *DigitalVersion) MarkDeleted() {
	v.AddDomainEvent(NewDigitalVersionDeletedEvent(v))
}

// StorageKey returns the object key a digital version is stored under
func StorageKey(level Level, identifier, filename string) string {
	return path.Join("digital-versions", string(level), identifier, filename)
}

// IdentifierFromReference derives a file-system friendly identifier from a
// reference code, e.g. HU OSA 300-1-2:14/3 becomes HU_OSA_300-1-2_014_003
func IdentifierFromReference(ref string) string {
	head, tail, _ := strings.Cut(ref, ":")
	out := strings.ReplaceAll(strings.TrimSpace(head), " ", "_")
	if tail == "" {
		return out
	}
	for _, part := range strings.FieldsFunc(tail, func(r rune) bool { return r == '/' || r == '-' }) {
		out += "_" + padNumber(part)
	}
	return out
}

func padNumber(s string) string {
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

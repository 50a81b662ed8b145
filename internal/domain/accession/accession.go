package accession

import (
	"fmt"
	"strings"
	"time"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Method is how material came into custody
type Method string

const (
	MethodDonation Method = "donation"
	MethodTransfer Method = "transfer"
	MethodPurchase Method = "purchase"
	MethodDeposit  Method = "deposit"
)

// IsValid reports whether m is a known accession method
func (m Method) IsValid() bool {
	switch m {
	case MethodDonation, MethodTransfer, MethodPurchase, MethodDeposit:
		return true
	}
	return false
}

// Accession records one transfer of material into the archive
type Accession struct {
	shared.BaseAggregateRoot
	SeqYear        int             `gorm:"not null;uniqueIndex:idx_accession_seq,priority:1"`
	SeqNumber      int             `gorm:"not null;uniqueIndex:idx_accession_seq,priority:2"`
	TransferDate   time.Time       `gorm:"type:date;not null"`
	DonorID        *uuid.UUID      `gorm:"type:uuid;index"`
	ArchivalUnitID *uuid.UUID      `gorm:"type:uuid;index"`
	Title          string          `gorm:"type:varchar(300);not null"`
	Description    string          `gorm:"type:text"`
	Extent         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Method         Method          `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Accession) TableName() string {
	return "accessions"
}

// Details holds the editable accession fields
type Details struct {
	TransferDate   time.Time
	DonorID        *uuid.UUID
	ArchivalUnitID *uuid.UUID
	Title          string
	Description    string
	Extent         decimal.Decimal
	Method         Method
}

// NewAccession creates an accession with the given sequence number within
// the year of its transfer date
func NewAccession(seqNumber int, d Details) (*Accession, error) {
	if seqNumber < 1 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Sequence number must be positive")
	}
	a := &Accession{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SeqNumber:         seqNumber,
	}
	if err := a.apply(d); err != nil {
		return nil, err
	}
	a.SeqYear = d.TransferDate.Year()
	return a, nil
}

// Update replaces the accession details. The sequence stays fixed even if
// the transfer date moves to another year.
func (a *Accession) Update(d Details) error {
	if err := a.apply(d); err != nil {
		return err
	}
	a.IncrementVersion()
	return nil
}

func (a *Accession) apply(d Details) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Accession title cannot be empty")
	}
	if d.TransferDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Transfer date is required")
	}
	if d.Extent.IsNegative() {
		return shared.NewDomainError("INVALID_EXTENT", "Extent cannot be negative")
	}
	if !d.Method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown accession method %q", d.Method))
	}
	a.Title = title
	a.TransferDate = d.TransferDate
	a.DonorID = d.DonorID
	a.ArchivalUnitID = d.ArchivalUnitID
	a.Description = d.Description
	a.Extent = d.Extent.Round(2)
	a.Method = d.Method
	return nil
}

// Code returns the accession number, e.g. 2024/0012
func (a *Accession) Code() string {
	return fmt.Sprintf("%d/%04d", a.SeqYear, a.SeqNumber)
}

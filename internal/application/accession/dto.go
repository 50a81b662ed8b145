package accession

import (
	"time"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/accession"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format of transfer dates
const dateLayout = "2006-01-02"

// AccessionRequest is the write DTO for creating and updating an accession
type AccessionRequest struct {
	TransferDate   string          `json:"transfer_date" binding:"required,datetime=2006-01-02"`
	DonorID        *uuid.UUID      `json:"donor_id"`
	ArchivalUnitID *uuid.UUID      `json:"archival_unit_id"`
	Title          string          `json:"title" binding:"required,min=1,max=300"`
	Description    string          `json:"description" binding:"max=10000"`
	Extent         decimal.Decimal `json:"extent"`
	Method         string          `json:"method" binding:"required,oneof=donation transfer purchase deposit"`
}

func (r AccessionRequest) details() (accession.Details, error) {
	date, err := time.Parse(dateLayout, r.TransferDate)
	if err != nil {
		return accession.Details{}, err
	}
	return accession.Details{
		TransferDate:   date,
		DonorID:        r.DonorID,
		ArchivalUnitID: r.ArchivalUnitID,
		Title:          r.Title,
		Description:    r.Description,
		Extent:         r.Extent,
		Method:         accession.Method(r.Method),
	}, nil
}

// ListFilter are the accession list query parameters
type ListFilter struct {
	common.ListParams
	Year           int        `form:"year" binding:"omitempty,min=1900,max=2999"`
	DonorID        *uuid.UUID `form:"donor_id"`
	ArchivalUnitID *uuid.UUID `form:"archival_unit_id"`
	Method         string     `form:"method" binding:"omitempty,oneof=donation transfer purchase deposit"`
}

// AccessionResponse is the read DTO of an accession
type AccessionResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	SeqYear        int             `json:"seq_year"`
	SeqNumber      int             `json:"seq_number"`
	TransferDate   string          `json:"transfer_date"`
	DonorID        *uuid.UUID      `json:"donor_id,omitempty"`
	ArchivalUnitID *uuid.UUID      `json:"archival_unit_id,omitempty"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Extent         decimal.Decimal `json:"extent"`
	Method         string          `json:"method"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// AccessionListResponse is an accession row in list results
type AccessionListResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	TransferDate string          `json:"transfer_date"`
	Title        string          `json:"title"`
	Extent       decimal.Decimal `json:"extent"`
	Method       string          `json:"method"`
}

// YearSummary reports the accessions received in a year
type YearSummary struct {
	Year        int             `json:"year"`
	TotalExtent decimal.Decimal `json:"total_extent"`
	NextSeq     int             `json:"next_seq"`
}

// ToAccessionResponse maps an accession to its read DTO
func ToAccessionResponse(a *accession.Accession) *AccessionResponse {
	return &AccessionResponse{
		ID:             a.ID,
		Code:           a.Code(),
		SeqYear:        a.SeqYear,
		SeqNumber:      a.SeqNumber,
		TransferDate:   a.TransferDate.Format(dateLayout),
		DonorID:        a.DonorID,
		ArchivalUnitID: a.ArchivalUnitID,
		Title:          a.Title,
		Description:    a.Description,
		Extent:         a.Extent,
		Method:         string(a.Method),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Version:        a.Version,
	}
}

// ToAccessionListResponse maps an accession to its list row
func ToAccessionListResponse(a *accession.Accession) AccessionListResponse {
	return AccessionListResponse{
		ID:           a.ID,
		Code:         a.Code(),
		TransferDate: a.TransferDate.Format(dateLayout),
		Title:        a.Title,
		Extent:       a.Extent,
		Method:       string(a.Method),
	}
}

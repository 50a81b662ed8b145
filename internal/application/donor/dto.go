package donor

import (
	"time"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/donor"
	"github.com/google/uuid"
)

// DonorRequest is the write DTO for creating and updating a donor
type DonorRequest struct {
	FirstName       string `json:"first_name" binding:"max=100"`
	MiddleName      string `json:"middle_name" binding:"max=100"`
	LastName        string `json:"last_name" binding:"max=100"`
	CorporationName string `json:"corporation_name" binding:"max=300"`
	Email           string `json:"email" binding:"omitempty,email,max=200"`
	Phone           string `json:"phone" binding:"max=50"`
	Country         string `json:"country" binding:"omitempty,len=2"`
	City            string `json:"city" binding:"max=100"`
	Zip             string `json:"zip" binding:"max=20"`
	Address         string `json:"address" binding:"max=300"`
	Note            string `json:"note" binding:"max=5000"`
}

func (r DonorRequest) profile() donor.Profile {
	return donor.Profile{
		FirstName:       r.FirstName,
		MiddleName:      r.MiddleName,
		LastName:        r.LastName,
		CorporationName: r.CorporationName,
		Email:           r.Email,
		Phone:           r.Phone,
		Country:         r.Country,
		City:            r.City,
		Zip:             r.Zip,
		Address:         r.Address,
		Note:            r.Note,
	}
}

// ListFilter are the donor list query parameters
type ListFilter struct {
	common.ListParams
	Country string `form:"country" binding:"omitempty,len=2"`
}

// DonorResponse is the read DTO of a donor
type DonorResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	FirstName       string    `json:"first_name,omitempty"`
	MiddleName      string    `json:"middle_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	CorporationName string    `json:"corporation_name,omitempty"`
	Corporate       bool      `json:"corporate"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Country         string    `json:"country,omitempty"`
	City            string    `json:"city,omitempty"`
	Zip             string    `json:"zip,omitempty"`
	Address         string    `json:"address,omitempty"`
	Note            string    `json:"note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

// DonorListResponse is a donor row in list results
type DonorListResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDonorResponse maps a donor to its read DTO
func ToDonorResponse(d *donor.Donor) *DonorResponse {
	return &DonorResponse{
		ID:              d.ID,
		Name:            d.Name,
		FirstName:       d.FirstName,
		MiddleName:      d.MiddleName,
		LastName:        d.LastName,
		CorporationName: d.CorporationName,
		Corporate:       d.IsCorporate(),
		Email:           d.Email,
		Phone:           d.Phone,
		Country:         d.Country,
		City:            d.City,
		Zip:             d.Zip,
		Address:         d.Address,
		Note:            d.Note,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Version:         d.Version,
	}
}

// ToDonorListResponse maps a donor to its list row
func ToDonorListResponse(d *donor.Donor) DonorListResponse {
	return DonorListResponse{
		ID:        d.ID,
		Name:      d.Name,
		Country:   d.Country,
		City:      d.City,
		CreatedAt: d.CreatedAt,
	}
}

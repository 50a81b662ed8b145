package donor

import (
	"strings"

	"github.com/ams/backend/internal/domain/shared"
)

// Donor is a person or corporate body that transferred material to the archive
type Donor struct {
	shared.BaseAggregateRoot
	Name            string `gorm:"type:varchar(300);not null;index"`
	FirstName       string `gorm:"type:varchar(100)"`
	MiddleName      string `gorm:"type:varchar(100)"`
	LastName        string `gorm:"type:varchar(100)"`
	CorporationName string `gorm:"type:varchar(300)"`
	Email           string `gorm:"type:varchar(200)"`
	Phone           string `gorm:"type:varchar(50)"`
	Country         string `gorm:"type:varchar(2)"`
	City            string `gorm:"type:varchar(100)"`
	Zip             string `gorm:"type:varchar(20)"`
	Address         string `gorm:"type:varchar(300)"`
	Note            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Donor) TableName() string {
	return "donors"
}

// Profile holds the editable donor fields
type Profile struct {
	FirstName       string
	MiddleName      string
	LastName        string
	CorporationName string
	Email           string
	Phone           string
	Country         string
	City            string
	Zip             string
	Address         string
	Note            string
}

// NewDonor creates a donor from a profile
func NewDonor(p Profile) (*Donor, error) {
	d := &Donor{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := d.apply(p); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces the donor profile
func (d *Donor) Update(p Profile) error {
	if err := d.apply(p); err != nil {
		return err
	}
	d.IncrementVersion()
	return nil
}

func (d *Donor) apply(p Profile) error {
	name := shared.DisplayName(p.CorporationName, p.FirstName, p.MiddleName, p.LastName)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Either a corporation name or a person name is required")
	}
	if len(name) > 300 {
		return shared.NewDomainError("INVALID_NAME", "Donor name cannot exceed 300 characters")
	}
	d.FirstName = strings.TrimSpace(p.FirstName)
	d.MiddleName = strings.TrimSpace(p.MiddleName)
	d.LastName = strings.TrimSpace(p.LastName)
	d.CorporationName = strings.TrimSpace(p.CorporationName)
	d.Name = name
	d.Email = strings.ToLower(strings.TrimSpace(p.Email))
	d.Phone = p.Phone
	d.Country = strings.ToUpper(p.Country)
	d.City = p.City
	d.Zip = p.Zip
	d.Address = p.Address
	d.Note = p.Note
	return nil
}

// IsCorporate reports whether the donor is an organisation
func (d *Donor) IsCorporate() bool {
	return d.CorporationName != ""
}

package research

import (
	"strings"

	"github.com/ams/backend/internal/domain/shared"
)

// Occupation categorises a researcher for reading room statistics
type Occupation string

const (
	OccupationStudent    Occupation = "student"
	OccupationAcademic   Occupation = "academic"
	OccupationJournalist Occupation = "journalist"
	OccupationOther      Occupation = "other"
)

// IsValid reports whether o is a known occupation
func (o Occupation) IsValid() bool {
	switch o {
	case OccupationStudent, OccupationAcademic, OccupationJournalist, OccupationOther:
		return true
	}
	return false
}

// Researcher is a registered reading room user
type Researcher struct {
	shared.BaseAggregateRoot
	FirstName   string     `gorm:"type:varchar(100);not null"`
	LastName    string     `gorm:"type:varchar(100);not null"`
	Email       string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	CardNumber  string     `gorm:"type:varchar(30);index"`
	Institution string     `gorm:"type:varchar(200)"`
	Occupation  Occupation `gorm:"type:varchar(20);not null"`
	Country     string     `gorm:"type:varchar(2)"`
	Approved    bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Researcher) TableName() string {
	return "researchers"
}

// ResearcherProfile holds the editable researcher fields
type ResearcherProfile struct {
	FirstName   string
	LastName    string
	Email       string
	Institution string
	Occupation  Occupation
	Country     string
}

// NewResearcher registers a researcher awaiting approval
func NewResearcher(p ResearcherProfile) (*Researcher, error) {
	r := &Researcher{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := r.apply(p); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the profile
func (r *Researcher) Update(p ResearcherProfile) error {
	if err := r.apply(p); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

// Approve admits the researcher to the reading room and assigns a card number
func (r *Researcher) Approve(cardNumber string) error {
	if r.Approved {
		return shared.NewDomainError("ALREADY_APPROVED", "Researcher is already approved")
	}
	cardNumber = strings.TrimSpace(cardNumber)
	if cardNumber == "" {
		return shared.NewDomainError("INVALID_CARD", "Card number is required")
	}
	r.CardNumber = cardNumber
	r.Approved = true
	r.IncrementVersion()
	return nil
}

// Name returns the researcher's display name
func (r *Researcher) Name() string {
	return shared.PersonName(r.FirstName, "", r.LastName)
}

func (r *Researcher) apply(p ResearcherProfile) error {
	first, last := strings.TrimSpace(p.FirstName), strings.TrimSpace(p.LastName)
	if first == "" || last == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	occupation := p.Occupation
	if occupation == "" {
		occupation = OccupationOther
	}
	if !occupation.IsValid() {
		return shared.NewDomainError("INVALID_OCCUPATION", "Unknown occupation")
	}
	r.FirstName = first
	r.LastName = last
	r.Email = email
	r.Institution = p.Institution
	r.Occupation = occupation
	r.Country = strings.ToUpper(p.Country)
	return nil
}

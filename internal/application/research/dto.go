package research

import (
	"time"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/research"
	"github.com/google/uuid"
)

// ResearcherRequest is the write DTO for registering and updating a researcher
type ResearcherRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=100"`
	LastName    string `json:"last_name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email,max=200"`
	Institution string `json:"institution" binding:"max=200"`
	Occupation  string `json:"occupation" binding:"omitempty,oneof=student academic journalist other"`
	Country     string `json:"country" binding:"omitempty,len=2"`
}

func (r ResearcherRequest) profile() research.ResearcherProfile {
	return research.ResearcherProfile{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Institution: r.Institution,
		Occupation:  research.Occupation(r.Occupation),
		Country:     r.Country,
	}
}

// ApproveResearcherRequest admits a researcher with a reader card number
type ApproveResearcherRequest struct {
	CardNumber string `json:"card_number" binding:"required,max=30"`
}

// ResearcherListFilter are the researcher list query parameters
type ResearcherListFilter struct {
	common.ListParams
	Approved *bool `form:"approved"`
}

// ResearcherResponse is the read DTO of a researcher
type ResearcherResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	CardNumber  string    `json:"card_number,omitempty"`
	Institution string    `json:"institution,omitempty"`
	Occupation  string    `json:"occupation"`
	Country     string    `json:"country,omitempty"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ResearcherListResponse is a researcher row in list results
type ResearcherListResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CardNumber string    `json:"card_number,omitempty"`
	Approved   bool      `json:"approved"`
}

// ToResearcherResponse maps a researcher to its read DTO
func ToResearcherResponse(r *research.Researcher) *ResearcherResponse {
	return &ResearcherResponse{
		ID:          r.ID,
		Name:        r.Name(),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		CardNumber:  r.CardNumber,
		Institution: r.Institution,
		Occupation:  string(r.Occupation),
		Country:     r.Country,
		Approved:    r.Approved,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

// ToResearcherListResponse maps a researcher to its list row
func ToResearcherListResponse(r *research.Researcher) ResearcherListResponse {
	return ResearcherListResponse{ID: r.ID, Name: r.Name(), Email: r.Email, CardNumber: r.CardNumber, Approved: r.Approved}
}

// CreateResearchRequestRequest asks for containers to be delivered to the reading room
type CreateResearchRequestRequest struct {
	ResearcherID uuid.UUID   `json:"researcher_id" binding:"required"`
	ContainerIDs []uuid.UUID `json:"container_ids" binding:"required,min=1,max=10"`
	Note         string      `json:"note" binding:"max=2000"`
}

// ItemStatusRequest moves a requested container forward
type ItemStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=delivered returned"`
}

// RequestListFilter are the research request list query parameters
type RequestListFilter struct {
	common.ListParams
	ResearcherID *uuid.UUID `form:"researcher_id"`
	Status       string     `form:"status" binding:"omitempty,oneof=new pending finished cancelled"`
}

// RequestItemResponse is a requested container
type RequestItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ContainerID   uuid.UUID `json:"container_id"`
	ReferenceCode string    `json:"reference_code,omitempty"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ResearchRequestResponse is the read DTO of a research request
type ResearchRequestResponse struct {
	ID           uuid.UUID             `json:"id"`
	ResearcherID uuid.UUID             `json:"researcher_id"`
	Status       string                `json:"status"`
	Note         string                `json:"note,omitempty"`
	SubmittedAt  *time.Time            `json:"submitted_at,omitempty"`
	FinishedAt   *time.Time            `json:"finished_at,omitempty"`
	Items        []RequestItemResponse `json:"items"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Version      int                   `json:"version"`
}

// ResearchRequestListResponse is a research request row in list results
type ResearchRequestListResponse struct {
	ID           uuid.UUID  `json:"id"`
	ResearcherID uuid.UUID  `json:"researcher_id"`
	Status       string     `json:"status"`
	ItemCount    int        `json:"item_count"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
}

// ToResearchRequestResponse maps a request to its read DTO. refs resolves
// container reference codes and may be nil.
func ToResearchRequestResponse(r *research.ResearchRequest, refs map[uuid.UUID]string) *ResearchRequestResponse {
	items := make([]RequestItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = RequestItemResponse{
			ID:            item.ID,
			ContainerID:   item.ContainerID,
			ReferenceCode: refs[item.ContainerID],
			Status:        string(item.Status),
			UpdatedAt:     item.UpdatedAt,
		}
	}
	return &ResearchRequestResponse{
		ID:           r.ID,
		ResearcherID: r.ResearcherID,
		Status:       string(r.Status),
		Note:         r.Note,
		SubmittedAt:  r.SubmittedAt,
		FinishedAt:   r.FinishedAt,
		Items:        items,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// ToResearchRequestListResponse maps a request to its list row
func ToResearchRequestListResponse(r *research.ResearchRequest) ResearchRequestListResponse {
	return ResearchRequestListResponse{
		ID:           r.ID,
		ResearcherID: r.ResearcherID,
		Status:       string(r.Status),
		ItemCount:    len(r.Items),
		SubmittedAt:  r.SubmittedAt,
	}
}

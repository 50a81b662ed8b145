package research

import (
	"time"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestStatus is the status of a research request
type RequestStatus string

const (
	RequestStatusNew       RequestStatus = "new"
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusFinished  RequestStatus = "finished"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// ItemStatus tracks a requested container through the reading room
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusDelivered ItemStatus = "delivered"
	ItemStatusReturned  ItemStatus = "returned"
)

// MaxItemsPerRequest caps how many containers one request may ask for
const MaxItemsPerRequest = 10

// ResearchRequest is a researcher's request to consult containers
type ResearchRequest struct {
	shared.BaseAggregateRoot
	ResearcherID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Status       RequestStatus `gorm:"type:varchar(20);not null;default:'new';index"`
	Note         string        `gorm:"type:text"`
	SubmittedAt  *time.Time
	FinishedAt   *time.Time
	Items        []RequestItem `gorm:"foreignKey:RequestID"`
}

// TableName returns the table name for GORM
func (ResearchRequest) TableName() string {
	return "research_requests"
}

// RequestItem is one requested container
type RequestItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequestID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ContainerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status      ItemStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (RequestItem) TableName() string {
	return "research_request_items"
}

// NewResearchRequest creates a request for the given containers. Only
// approved researchers may request material.
func NewResearchRequest(researcher *Researcher, containerIDs []uuid.UUID, note string) (*ResearchRequest, error) {
	if researcher == nil || !researcher.Approved {
		return nil, shared.NewDomainError("RESEARCHER_NOT_APPROVED", "Researcher must be approved before requesting material")
	}
	if len(containerIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_REQUEST", "At least one container must be requested")
	}
	if len(containerIDs) > MaxItemsPerRequest {
		return nil, shared.NewDomainError("TOO_MANY_ITEMS", "Too many containers in one request")
	}
	req := &ResearchRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ResearcherID:      researcher.ID,
		Status:            RequestStatusNew,
		Note:              note,
	}
	seen := make(map[uuid.UUID]struct{}, len(containerIDs))
	for _, id := range containerIDs {
		if _, dup := seen[id]; dup {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "A container can only be requested once")
		}
		seen[id] = struct{}{}
		req.Items = append(req.Items, RequestItem{
			ID:          uuid.New(),
			RequestID:   req.ID,
			ContainerID: id,
			Status:      ItemStatusPending,
			UpdatedAt:   req.CreatedAt,
		})
	}
	return req, nil
}

// Submit sends a new request to the reading room staff
func (r *ResearchRequest) Submit() error {
	if r.Status != RequestStatusNew {
		return shared.NewDomainError("INVALID_STATE", "Only new requests can be submitted")
	}
	now := time.Now()
	r.Status = RequestStatusPending
	r.SubmittedAt = &now
	r.IncrementVersion()
	return nil
}

// SetItemStatus moves a requested container forward: pending, delivered, returned
func (r *ResearchRequest) SetItemStatus(itemID uuid.UUID, status ItemStatus) error {
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Items can only change while the request is pending")
	}
	for i := range r.Items {
		item := &r.Items[i]
		if item.ID != itemID {
			continue
		}
		if !itemTransitionAllowed(item.Status, status) {
			return shared.NewDomainError("INVALID_TRANSITION", "Item cannot move from "+string(item.Status)+" to "+string(status))
		}
		item.Status = status
		item.UpdatedAt = time.Now()
		r.IncrementVersion()
		return nil
	}
	return shared.ErrNotFound
}

// Finish closes a request once every container has been returned
func (r *ResearchRequest) Finish() error {
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending requests can be finished")
	}
	for _, item := range r.Items {
		if item.Status != ItemStatusReturned {
			return shared.NewDomainError("ITEMS_OUTSTANDING", "All containers must be returned first")
		}
	}
	now := time.Now()
	r.Status = RequestStatusFinished
	r.FinishedAt = &now
	r.IncrementVersion()
	return nil
}

// Cancel withdraws a request that has no delivered containers
func (r *ResearchRequest) Cancel() error {
	if r.Status != RequestStatusNew && r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only new or pending requests can be cancelled")
	}
	for _, item := range r.Items {
		if item.Status == ItemStatusDelivered {
			return shared.NewDomainError("ITEMS_OUTSTANDING", "Delivered containers must be returned first")
		}
	}
	r.Status = RequestStatusCancelled
	r.IncrementVersion()
	return nil
}

func itemTransitionAllowed(from, to ItemStatus) bool {
	switch from {
	case ItemStatusPending:
		return to == ItemStatusDelivered
	case ItemStatusDelivered:
		return to == ItemStatusReturned
	}
	return false
}

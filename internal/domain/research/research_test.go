package research

import (
	"testing"

	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedResearcher(t *testing.T) *Researcher {
	t.Helper()
	r, err := NewResearcher(ResearcherProfile{FirstName: "Anna", LastName: "Kovács", Email: "Anna@Example.org", Occupation: OccupationAcademic})
	require.NoError(t, err)
	require.NoError(t, r.Approve("OSA-2024-001"))
	return r
}

func TestNewResearcher(t *testing.T) {
	r, err := NewResearcher(ResearcherProfile{FirstName: " Anna ", LastName: "Kovács", Email: "Anna@Example.org"})
	require.NoError(t, err)
	assert.Equal(t, "Anna Kovács", r.Name())
	assert.Equal(t, "anna@example.org", r.Email)
	assert.Equal(t, OccupationOther, r.Occupation)
	assert.False(t, r.Approved)

	_, err = NewResearcher(ResearcherProfile{FirstName: "Anna", Email: "a@b.c"})
	assert.Error(t, err)
	_, err = NewResearcher(ResearcherProfile{FirstName: "Anna", LastName: "K", Email: "a@b.c", Occupation: "spy"})
	assert.Error(t, err)
}

func TestResearcher_Approve(t *testing.T) {
	r := approvedResearcher(t)
	assert.Equal(t, "OSA-2024-001", r.CardNumber)
	assert.Error(t, r.Approve("OSA-2024-002"))
}

func TestNewResearchRequest(t *testing.T) {
	pending, err := NewResearcher(ResearcherProfile{FirstName: "A", LastName: "B", Email: "a@b.c"})
	require.NoError(t, err)
	_, err = NewResearchRequest(pending, []uuid.UUID{uuid.New()}, "")
	assert.Error(t, err, "unapproved researcher")

	r := approvedResearcher(t)
	_, err = NewResearchRequest(r, nil, "")
	assert.Error(t, err)

	id := uuid.New()
	_, err = NewResearchRequest(r, []uuid.UUID{id, id}, "")
	assert.Error(t, err)

	req, err := NewResearchRequest(r, []uuid.UUID{uuid.New(), uuid.New()}, "thesis")
	require.NoError(t, err)
	assert.Equal(t, RequestStatusNew, req.Status)
	require.Len(t, req.Items, 2)
	assert.Equal(t, req.ID, req.Items[0].RequestID)
}

func TestResearchRequest_Workflow(t *testing.T) {
	req, err := NewResearchRequest(approvedResearcher(t), []uuid.UUID{uuid.New()}, "")
	require.NoError(t, err)
	itemID := req.Items[0].ID

	assert.Error(t, req.SetItemStatus(itemID, ItemStatusDelivered), "not submitted yet")
	require.NoError(t, req.Submit())
	assert.NotNil(t, req.SubmittedAt)
	assert.Error(t, req.Submit())

	assert.Error(t, req.SetItemStatus(itemID, ItemStatusReturned), "skips delivery")
	assert.ErrorIs(t, req.SetItemStatus(uuid.New(), ItemStatusDelivered), shared.ErrNotFound)

	require.NoError(t, req.SetItemStatus(itemID, ItemStatusDelivered))
	assert.Error(t, req.Finish(), "container still out")
	assert.Error(t, req.Cancel(), "container still out")

	require.NoError(t, req.SetItemStatus(itemID, ItemStatusReturned))
	require.NoError(t, req.Finish())
	assert.Equal(t, RequestStatusFinished, req.Status)
	assert.NotNil(t, req.FinishedAt)
	assert.Error(t, req.Cancel())
}

func TestResearchRequest_Cancel(t *testing.T) {
	req, err := NewResearchRequest(approvedResearcher(t), []uuid.UUID{uuid.New()}, "")
	require.NoError(t, err)
	require.NoError(t, req.Cancel())
	assert.Equal(t, RequestStatusCancelled, req.Status)
	assert.Error(t, req.Submit())
}

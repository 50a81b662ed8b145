package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(t *testing.T) *IsaarRecord {
	t.Helper()
	r, err := NewIsaarRecord(Description{
		Name:              "Radio Free Europe/Radio Liberty. Research Institute",
		NameOriginal:      "Szabad Európa Rádió",
		OriginalLocale:    "hu",
		ParallelNames:     []string{"RFE/RL RI", " ", "RFE/RL RI"},
		Type:              EntityTypeCorporate,
		DateExistenceFrom: "1949",
		DateExistenceTo:   "1995",
	})
	require.NoError(t, err)
	return r
}

func TestNewIsaarRecord(t *testing.T) {
	r := newRecord(t)

	assert.Equal(t, StatusDraft, r.Status)
	assert.False(t, r.Indexable())
	assert.Equal(t, []string{"RFE/RL RI"}, r.ParallelNames)

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeIsaarCreated, events[0].EventType())
	assert.Equal(t, r.ID, events[0].AggregateID())
}

func TestNewIsaarRecord_Validation(t *testing.T) {
	_, err := NewIsaarRecord(Description{Name: "", Type: EntityTypePerson})
	assert.Error(t, err)

	_, err = NewIsaarRecord(Description{Name: "Nagy, Imre", Type: "dynasty"})
	assert.Error(t, err)

	_, err = NewIsaarRecord(Description{Name: "Nagy, Imre", Type: EntityTypePerson, DateExistenceFrom: "1958", DateExistenceTo: "1896"})
	assert.Error(t, err)
}

func TestIsaarRecord_FinalizeAndRevert(t *testing.T) {
	r := newRecord(t)
	r.ClearDomainEvents()

	require.NoError(t, r.Finalize())
	assert.True(t, r.Indexable())
	assert.Error(t, r.Finalize())

	require.NoError(t, r.Revert())
	assert.False(t, r.Indexable())

	events := r.GetDomainEvents()
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, EventTypeIsaarUpdated, e.EventType())
	}
	assert.Equal(t, StatusFinal, events[0].(*IsaarUpdatedEvent).Status)
	assert.Equal(t, StatusDraft, events[1].(*IsaarUpdatedEvent).Status)
}

func TestIsaarRecord_MarkDeleted(t *testing.T) {
	r := newRecord(t)
	r.ClearDomainEvents()
	r.MarkDeleted()

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeIsaarDeleted, events[0].EventType())
}

func TestIsaarRecord_OriginalValues(t *testing.T) {
	r := newRecord(t)
	assert.Equal(t, "hu", r.OriginalLocaleCode())
	assert.Equal(t, "Szabad Európa Rádió", r.OriginalValues()["name"])
}

package event

import (
	"testing"

	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_DecodesRegisteredType(t *testing.T) {
	s := NewEventSerializer()
	s.Register("RecordSaved", &recordSavedEvent{})

	evt := newRecordSavedEvent("RecordSaved")
	payload, err := s.Serialize(evt)
	require.NoError(t, err)

	decoded, err := s.Deserialize("RecordSaved", payload)
	require.NoError(t, err)

	got, ok := decoded.(*recordSavedEvent)
	require.True(t, ok)
	assert.Equal(t, evt.EventID(), got.EventID())
	assert.Equal(t, evt.AggregateID(), got.AggregateID())
	assert.Equal(t, "HU OSA 300-1-2:14/3", got.ReferenceCode)
}

func TestEventSerializer_Errors(t *testing.T) {
	s := NewEventSerializer()
	_, err := s.Deserialize("Unknown", []byte(`{}`))
	assert.Error(t, err)

	s.Register("RecordSaved", &recordSavedEvent{})
	_, err = s.Deserialize("RecordSaved", []byte(`{not json`))
	assert.Error(t, err)
}

func TestRegisterAllEvents(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	assert.True(t, s.IsRegistered(findingaids.EventTypeFindingAidsPublished))
	assert.Len(t, s.RegisteredTypes(), 16)

	e := &findingaids.FindingAidsEntity{ContainerID: uuid.New(), ReferenceCode: "HU OSA 300-1-2:1/1", Published: true}
	e.ID = uuid.New()
	payload, err := s.Serialize(findingaids.NewFindingAidsPublishedEvent(e))
	require.NoError(t, err)

	decoded, err := s.Deserialize(findingaids.EventTypeFindingAidsPublished, payload)
	require.NoError(t, err)
	published := decoded.(*findingaids.FindingAidsPublishedEvent)
	assert.Equal(t, e.ID, published.AggregateID())
	assert.Equal(t, e.ContainerID, published.ContainerID)
	assert.True(t, published.Published)
}

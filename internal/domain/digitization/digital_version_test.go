package digitization

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainerVersion(t *testing.T) {
	containerID := uuid.New()
	v, err := NewContainerVersion(containerID, File{Identifier: "HU_OSA_300-1-2_014", Filename: "../etc/box14.mp4", ContentType: "video/mp4"}, true)
	require.NoError(t, err)

	assert.Equal(t, LevelContainer, v.Level)
	assert.Equal(t, containerID, *v.ContainerID)
	assert.Nil(t, v.FindingAidsEntityID)
	assert.Equal(t, "box14.mp4", v.Filename)
	assert.Equal(t, "digital-versions/container/HU_OSA_300-1-2_014/box14.mp4", v.StorageKey)

	events := v.GetDomainEvents()
	require.Len(t, events, 1)
	created := events[0].(*DigitalVersionCreatedEvent)
	assert.Equal(t, containerID, *created.ContainerID)
	assert.True(t, created.AvailableOnline)
}

func TestNewFindingAidsVersion_Validation(t *testing.T) {
	_, err := NewFindingAidsVersion(uuid.Nil, File{Identifier: "x", Filename: "x.pdf"}, false)
	assert.Error(t, err)
	_, err = NewFindingAidsVersion(uuid.New(), File{Identifier: " ", Filename: "x.pdf"}, false)
	assert.Error(t, err)
	_, err = NewFindingAidsVersion(uuid.New(), File{Identifier: "x", Filename: ""}, false)
	assert.Error(t, err)
}

func TestDigitalVersion_SetAvailability(t *testing.T) {
	v, err := NewFindingAidsVersion(uuid.New(), File{Identifier: "HU_OSA_300-1-2_014_003", Filename: "f.pdf"}, false)
	require.NoError(t, err)
	v.ClearDomainEvents()

	v.SetAvailability(false)
	assert.Empty(t, v.GetDomainEvents())

	v.SetAvailability(true)
	v.MarkDeleted()
	events := v.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeDigitalVersionUpdated, events[0].EventType())
	assert.Equal(t, EventTypeDigitalVersionDeleted, events[1].EventType())
}

func TestIdentifierFromReference(t *testing.T) {
	assert.Equal(t, "HU_OSA_300-1-2", IdentifierFromReference("HU OSA 300-1-2"))
	assert.Equal(t, "HU_OSA_300-1-2_014", IdentifierFromReference("HU OSA 300-1-2:14"))
	assert.Equal(t, "HU_OSA_300-1-2_014_003", IdentifierFromReference("HU OSA 300-1-2:14/3"))
	assert.Equal(t, "HU_OSA_300-1-2_014_003_012", IdentifierFromReference("HU OSA 300-1-2:14/3-12"))
}

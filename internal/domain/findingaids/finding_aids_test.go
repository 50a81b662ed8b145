package findingaids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placement() Placement {
	return Placement{
		ArchivalUnitID:         uuid.New(),
		ContainerID:            uuid.New(),
		ContainerReferenceCode: "HU OSA 300-1-2:14",
		FolderNo:               3,
	}
}

func description() Description {
	return Description{
		Title:           "Reports on the 1956 revolution",
		TitleOriginal:   "Jelentések az 1956-os forradalomról",
		OriginalLocale:  "hu",
		DateFrom:        "1956-10-23",
		DateTo:          "1956-11-04",
		ContentsSummary: "Monitoring reports",
		Languages:       []string{"HU", "en", "hu", ""},
	}
}

func TestNewFolder(t *testing.T) {
	p := placement()
	p.SequenceNo = 9
	e, err := NewFolder(p, description())
	require.NoError(t, err)

	assert.Equal(t, LevelFolder, e.Level)
	assert.Zero(t, e.SequenceNo)
	assert.Equal(t, "HU OSA 300-1-2:14/3", e.ReferenceCode)
	assert.Equal(t, []string{"hu", "en"}, e.Languages)
	assert.False(t, e.Indexable())

	events := e.GetDomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*FindingAidsCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, e.ContainerID, created.ContainerID)
}

func TestNewItem(t *testing.T) {
	p := placement()
	p.SequenceNo = 2
	e, err := NewItem(p, description())
	require.NoError(t, err)
	assert.Equal(t, "HU OSA 300-1-2:14/3-2", e.ReferenceCode)

	p.SequenceNo = 0
	_, err = NewItem(p, description())
	assert.Error(t, err)
}

func TestNewFolder_Validation(t *testing.T) {
	p := placement()
	p.ContainerID = uuid.Nil
	_, err := NewFolder(p, description())
	assert.Error(t, err)

	p = placement()
	p.FolderNo = 0
	_, err = NewFolder(p, description())
	assert.Error(t, err)

	d := description()
	d.DateFrom = "1956-13"
	_, err = NewFolder(placement(), d)
	assert.Error(t, err)

	d = description()
	d.Title = ""
	_, err = NewFolder(placement(), d)
	assert.Error(t, err)
}

func TestIndexable(t *testing.T) {
	tests := []struct {
		name         string
		published    bool
		confidential bool
		want         bool
	}{
		{"draft", false, false, false},
		{"published", true, false, true},
		{"published confidential", true, true, false},
		{"confidential draft", false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &FindingAidsEntity{Published: tt.published, Confidential: tt.confidential}
			assert.Equal(t, tt.want, e.Indexable())
		})
	}
}

func TestPublishLifecycle(t *testing.T) {
	e, err := NewFolder(placement(), description())
	require.NoError(t, err)
	e.ClearDomainEvents()

	require.NoError(t, e.Publish())
	assert.NotNil(t, e.PublishedAt)
	assert.Error(t, e.Publish())

	e.SetConfidential(true)
	e.SetConfidential(true)
	assert.False(t, e.Indexable())

	require.NoError(t, e.Unpublish())
	assert.Nil(t, e.PublishedAt)
	assert.Error(t, e.Unpublish())

	e.MarkDeleted()

	var types []string
	for _, evt := range e.GetDomainEvents() {
		types = append(types, evt.EventType())
	}
	assert.Equal(t, []string{
		EventTypeFindingAidsPublished,
		EventTypeFindingAidsUpdated,
		EventTypeFindingAidsUnpublished,
		EventTypeFindingAidsDeleted,
	}, types)
	assert.Equal(t, 4, e.Version)
}

func TestOriginalValues(t *testing.T) {
	e, err := NewFolder(placement(), description())
	require.NoError(t, err)
	assert.Equal(t, "hu", e.OriginalLocaleCode())
	assert.Equal(t, "Jelentések az 1956-os forradalomról", e.OriginalValues()["title"])
}

package authority

import (
	"context"
	"testing"

	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIsaarRepository struct {
	mock.Mock
}

func (m *MockIsaarRepository) FindByID(ctx context.Context, id uuid.UUID) (*authority.IsaarRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authority.IsaarRecord), args.Error(1)
}

func (m *MockIsaarRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]authority.IsaarRecord, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]authority.IsaarRecord), args.Error(1)
}

func (m *MockIsaarRepository) FindAll(ctx context.Context, filter shared.Filter) ([]authority.IsaarRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]authority.IsaarRecord), args.Error(1)
}

func (m *MockIsaarRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIsaarRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIsaarRepository) Save(ctx context.Context, r *authority.IsaarRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockIsaarRepository) Delete(ctx context.Context, r *authority.IsaarRecord) error {
	return m.Called(ctx, r).Error(0)
}

func sampleRequest() IsaarRequest {
	return IsaarRequest{
		Name:            "Radio Free Europe/Radio Liberty. Research Institute",
		NameOriginal:    "Szabad Európa Rádió. Kutatóintézet",
		OriginalLocale:  "hu",
		Type:            "corporate",
		History:         "Research arm of the broadcaster.",
		HistoryOriginal: "",
	}
}

func draftRecord(t *testing.T) *authority.IsaarRecord {
	t.Helper()
	r, err := authority.NewIsaarRecord(sampleRequest().description())
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

func TestService_Create(t *testing.T) {
	t.Run("draft with original fields", func(t *testing.T) {
		repo := new(MockIsaarRepository)
		repo.On("ExistsByName", mock.Anything, sampleRequest().Name, (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(r *authority.IsaarRecord) bool {
			return len(r.GetDomainEvents()) == 1 && r.GetDomainEvents()[0].EventType() == authority.EventTypeIsaarCreated
		})).Return(nil)
		svc := NewService(repo)

		resp, err := svc.Create(context.Background(), sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, "draft", resp.Status)
		require.NotNil(t, resp.Original)
		assert.Equal(t, "hu", resp.Original.Locale)
		assert.Equal(t, "Szabad Európa Rádió. Kutatóintézet", resp.Original.Fields["name_original"])
		assert.NotContains(t, resp.Original.Fields, "history_original")
		assert.Equal(t, []string{}, resp.ParallelNames)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := new(MockIsaarRepository)
		repo.On("ExistsByName", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
		svc := NewService(repo)

		_, err := svc.Create(context.Background(), sampleRequest())
		assert.ErrorIs(t, err, ErrNameTaken)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_Update_ExcludesSelfFromNameCheck(t *testing.T) {
	r := draftRecord(t)
	repo := new(MockIsaarRepository)
	repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	repo.On("ExistsByName", mock.Anything, mock.Anything, &r.ID).Return(false, nil)
	repo.On("Save", mock.Anything, r).Return(nil)
	svc := NewService(repo)

	req := sampleRequest()
	req.ParallelNames = []string{"RFE/RL RI", " ", "RFE/RL RI"}
	resp, err := svc.Update(context.Background(), r.ID, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"RFE/RL RI"}, resp.ParallelNames)
	assert.Equal(t, 2, resp.Version)
}

func TestService_Finalize(t *testing.T) {
	r := draftRecord(t)
	repo := new(MockIsaarRepository)
	repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	repo.On("Save", mock.Anything, r).Return(nil).Once()
	svc := NewService(repo)

	resp, err := svc.Finalize(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", resp.Status)

	_, err = svc.Finalize(context.Background(), r.ID)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ALREADY_FINAL", de.Code)
	repo.AssertExpectations(t)
}

func TestService_Delete(t *testing.T) {
	t.Run("records a delete event", func(t *testing.T) {
		r := draftRecord(t)
		repo := new(MockIsaarRepository)
		repo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		repo.On("Delete", mock.Anything, mock.MatchedBy(func(rec *authority.IsaarRecord) bool {
			events := rec.GetDomainEvents()
			return len(events) == 1 && events[0].EventType() == authority.EventTypeIsaarDeleted
		})).Return(nil)
		svc := NewService(repo)

		require.NoError(t, svc.Delete(context.Background(), r.ID))
		repo.AssertExpectations(t)
	})

	t.Run("missing record", func(t *testing.T) {
		repo := new(MockIsaarRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)
		svc := NewService(repo)

		assert.ErrorIs(t, svc.Delete(context.Background(), id), shared.ErrNotFound)
	})
}

package donor

import (
	"context"
	"testing"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/donor"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDonorRepository struct {
	mock.Mock
}

func (m *MockDonorRepository) FindByID(ctx context.Context, id uuid.UUID) (*donor.Donor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donor.Donor), args.Error(1)
}

func (m *MockDonorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]donor.Donor, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]donor.Donor), args.Error(1)
}

func (m *MockDonorRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDonorRepository) Save(ctx context.Context, d *donor.Donor) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDonorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAccessionCounter struct {
	mock.Mock
}

func (m *MockAccessionCounter) CountByDonor(ctx context.Context, donorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, donorID)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_Create(t *testing.T) {
	t.Run("person name is built from parts", func(t *testing.T) {
		repo := new(MockDonorRepository)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*donor.Donor")).Return(nil)
		svc := NewService(repo, new(MockAccessionCounter))

		resp, err := svc.Create(context.Background(), DonorRequest{FirstName: "István", MiddleName: " ", LastName: "Rév"})
		require.NoError(t, err)
		assert.Equal(t, "István Rév", resp.Name)
		assert.False(t, resp.Corporate)
		assert.Equal(t, 1, resp.Version)
		repo.AssertExpectations(t)
	})

	t.Run("corporation name wins", func(t *testing.T) {
		repo := new(MockDonorRepository)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		svc := NewService(repo, new(MockAccessionCounter))

		resp, err := svc.Create(context.Background(), DonorRequest{FirstName: "George", CorporationName: "Open Society Institute"})
		require.NoError(t, err)
		assert.Equal(t, "Open Society Institute", resp.Name)
		assert.True(t, resp.Corporate)
	})

	t.Run("nameless donor is rejected before saving", func(t *testing.T) {
		repo := new(MockDonorRepository)
		svc := NewService(repo, new(MockAccessionCounter))

		_, err := svc.Create(context.Background(), DonorRequest{City: "Budapest"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_List(t *testing.T) {
	repo := new(MockDonorRepository)
	d, err := donor.NewDonor(donor.Profile{CorporationName: "OSF", Country: "US"})
	require.NoError(t, err)

	matchesCountry := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["country"] == "US" && f.Page == 1 && f.PageSize == common.DefaultPageSize
	})
	repo.On("FindAll", mock.Anything, matchesCountry).Return([]donor.Donor{*d}, nil)
	repo.On("Count", mock.Anything, matchesCountry).Return(int64(1), nil)

	res, err := NewService(repo, new(MockAccessionCounter)).List(context.Background(), ListFilter{Country: "us"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "OSF", res.Items[0].Name)
	assert.Equal(t, int64(1), res.Total)
}

func TestService_Update(t *testing.T) {
	repo := new(MockDonorRepository)
	d, err := donor.NewDonor(donor.Profile{CorporationName: "OSF"})
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	repo.On("Save", mock.Anything, d).Return(nil)

	resp, err := NewService(repo, new(MockAccessionCounter)).Update(context.Background(), d.ID, DonorRequest{CorporationName: "Open Society Foundations"})
	require.NoError(t, err)
	assert.Equal(t, "Open Society Foundations", resp.Name)
	assert.Equal(t, 2, resp.Version)
}

func TestService_Delete(t *testing.T) {
	d, err := donor.NewDonor(donor.Profile{CorporationName: "OSF"})
	require.NoError(t, err)

	t.Run("refused while accessions reference the donor", func(t *testing.T) {
		repo := new(MockDonorRepository)
		counter := new(MockAccessionCounter)
		repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
		counter.On("CountByDonor", mock.Anything, d.ID).Return(int64(2), nil)

		err := NewService(repo, counter).Delete(context.Background(), d.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DONOR_IN_USE", domainErr.Code)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes unused donor", func(t *testing.T) {
		repo := new(MockDonorRepository)
		counter := new(MockAccessionCounter)
		repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
		repo.On("Delete", mock.Anything, d.ID).Return(nil)
		counter.On("CountByDonor", mock.Anything, d.ID).Return(int64(0), nil)

		require.NoError(t, NewService(repo, counter).Delete(context.Background(), d.ID))
		repo.AssertExpectations(t)
	})

	t.Run("missing donor", func(t *testing.T) {
		repo := new(MockDonorRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		err := NewService(repo, new(MockAccessionCounter)).Delete(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

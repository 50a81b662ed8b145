package digitization

import (
	"context"
	"errors"
	"fmt"

	"github.com/ams/backend/internal/application/common"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/digitization"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Errors returned by digital version operations
var (
	ErrIdentifierTaken = shared.NewDomainError("IDENTIFIER_ALREADY_EXISTS", "A digital version with this identifier already exists")
	ErrNotOnline       = shared.NewDomainError("NOT_AVAILABLE_ONLINE", "Digital version is not available online")
	ErrFileMissing     = shared.NewDomainError("FILE_NOT_FOUND", "Digital version file has not been uploaded")
)

// ContainerFinder loads digitized containers
type ContainerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*container.Container, error)
}

// FindingAidsFinder loads digitized folders and items
type FindingAidsFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*findingaids.FindingAidsEntity, error)
}

// Service handles the digitization workflow
type Service struct {
	repo        digitization.Repository
	containers  ContainerFinder
	findingAids FindingAidsFinder
	storage     digitization.ObjectStorage
	logger      *zap.Logger
}

// NewService creates a digitization service
func NewService(
	repo digitization.Repository,
	containers ContainerFinder,
	findingAids FindingAidsFinder,
	storage digitization.ObjectStorage,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:        repo,
		containers:  containers,
		findingAids: findingAids,
		storage:     storage,
		logger:      logger,
	}
}

// Register creates a digital version for a container or finding aids record
// and returns a presigned upload URL for its file
func (s *Service) Register(ctx context.Context, req RegisterDigitalVersionRequest) (*RegisterResponse, error) {
	file := digitization.File{Identifier: req.Identifier, Filename: req.Filename, ContentType: req.ContentType}

	var (
		v   *digitization.DigitalVersion
		err error
	)
	switch digitization.Level(req.Level) {
	case digitization.LevelContainer:
		if req.ContainerID == nil {
			return nil, shared.NewDomainError("INVALID_TARGET", "Container is required")
		}
		c, ferr := s.containers.FindByID(ctx, *req.ContainerID)
		if ferr != nil {
			return nil, ferr
		}
		if file.Identifier == "" {
			file.Identifier = digitization.IdentifierFromReference(c.ReferenceCode)
		}
		v, err = digitization.NewContainerVersion(c.ID, file, req.AvailableOnline)
	case digitization.LevelFindingAids:
		if req.FindingAidsEntityID == nil {
			return nil, shared.NewDomainError("INVALID_TARGET", "Finding aids record is required")
		}
		e, ferr := s.findingAids.FindByID(ctx, *req.FindingAidsEntityID)
		if ferr != nil {
			return nil, ferr
		}
		if file.Identifier == "" {
			file.Identifier = digitization.IdentifierFromReference(e.ReferenceCode)
		}
		v, err = digitization.NewFindingAidsVersion(e.ID, file, req.AvailableOnline)
	default:
		return nil, shared.NewDomainError("INVALID_LEVEL", "Unknown digital version level")
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByIdentifier(ctx, v.Identifier); err == nil {
		return nil, ErrIdentifierTaken
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}
	uploadURL, err := s.storage.PresignedUploadURL(ctx, v.StorageKey, v.ContentType)
	if err != nil {
		return nil, fmt.Errorf("presign upload for %s: %w", v.Identifier, err)
	}
	s.logger.Info("Digital version registered",
		zap.String("id", v.ID.String()),
		zap.String("identifier", v.Identifier),
		zap.String("level", string(v.Level)))
	return &RegisterResponse{DigitalVersionResponse: ToDigitalVersionResponse(v), UploadURL: uploadURL}, nil
}

// GetByID returns a digital version
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*DigitalVersionResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDigitalVersionResponse(v)
	return &resp, nil
}

// List returns a page of digital versions
func (s *Service) List(ctx context.Context, filter ListFilter) (common.ListResult[DigitalVersionResponse], error) {
	f := filter.Filter()
	if filter.Level != "" {
		f.Filters["level"] = filter.Level
	}
	if filter.ContainerID != nil {
		f.Filters["container_id"] = *filter.ContainerID
	}
	if filter.FindingAidsEntityID != nil {
		f.Filters["finding_aids_entity_id"] = *filter.FindingAidsEntityID
	}
	if filter.AvailableOnline != nil {
		f.Filters["available_online"] = *filter.AvailableOnline
	}
	records, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return common.ListResult[DigitalVersionResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return common.ListResult[DigitalVersionResponse]{}, err
	}
	return common.NewListResult(records, total, f, ToDigitalVersionResponse), nil
}

// SetAvailability switches online access; the catalog facet of the
// reproduced record follows
func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, online bool) (*DigitalVersionResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := v.GetVersion()
	v.SetAvailability(online)
	if v.GetVersion() != before {
		if err := s.repo.Save(ctx, v); err != nil {
			return nil, err
		}
	}
	resp := ToDigitalVersionResponse(v)
	return &resp, nil
}

// DownloadURL returns a presigned download link for an online digital version
func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID) (*DownloadResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.AvailableOnline {
		return nil, ErrNotOnline
	}
	ok, err := s.storage.Exists(ctx, v.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("check object %s: %w", v.StorageKey, err)
	}
	if !ok {
		return nil, ErrFileMissing
	}
	url, err := s.storage.PresignedDownloadURL(ctx, v.StorageKey, v.Filename)
	if err != nil {
		return nil, fmt.Errorf("presign download for %s: %w", v.Identifier, err)
	}
	return &DownloadResponse{URL: url, Filename: v.Filename}, nil
}

// Delete removes a digital version and then its stored file. A file that
// cannot be removed is logged and left behind.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	v.MarkDeleted()
	if err := s.repo.Delete(ctx, v); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, v.StorageKey); err != nil {
		s.logger.Warn("Failed to delete digital version file",
			zap.String("key", v.StorageKey),
			zap.Error(err))
	}
	return nil
}

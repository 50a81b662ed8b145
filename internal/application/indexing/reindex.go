package indexing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ams/backend/internal/domain/catalog"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/ams/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultReindexPageSize = 200

// ReindexReport summarizes the rebuild of one document type
type ReindexReport struct {
	Type     catalog.DocumentType `json:"type"`
	Indexed  int                  `json:"indexed"`
	Skipped  int                  `json:"skipped"`
	Removed  int                  `json:"removed"`
	Duration time.Duration        `json:"duration"`
}

// ReindexService rebuilds the catalog from the database
type ReindexService struct {
	builders Builders
	index    catalog.Index
	pageSize int
	logger   *zap.Logger
	onChange func()
}

// NewReindexService creates a reindex service. A pageSize of zero uses the default.
func NewReindexService(builders Builders, index catalog.Index, pageSize int, logger *zap.Logger) *ReindexService {
	if pageSize <= 0 {
		pageSize = defaultReindexPageSize
	}
	return &ReindexService{builders: builders, index: index, pageSize: pageSize, logger: logger}
}

// SetChangeHook runs fn after each reindexed type
func (s *ReindexService) SetChangeHook(fn func()) {
	s.onChange = fn
}

// Reindex rebuilds the given types, or every type when none is given.
// Candidates are upserted page by page. Indexed documents the pass did not
// visit are rebuilt afterwards and removed only when their record is gone or
// no longer public.
func (s *ReindexService) Reindex(ctx context.Context, types ...catalog.DocumentType) ([]ReindexReport, error) {
	if len(types) == 0 {
		types = catalog.AllDocumentTypes
	}
	reports := make([]ReindexReport, 0, len(types))
	for _, t := range types {
		report, err := s.reindexType(ctx, t)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
		if s.onChange != nil {
			s.onChange()
		}
	}
	return reports, nil
}

func (s *ReindexService) reindexType(ctx context.Context, t catalog.DocumentType) (ReindexReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ReindexService", "Reindex", telemetry.WithAttribute(telemetry.SpanAttrDocumentType, string(t)))
	defer span.End()

	builder, ok := s.builders[t]
	if !ok {
		err := shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Unknown catalog type %q", t))
		telemetry.RecordError(span, err)
		return ReindexReport{}, err
	}

	start := time.Now()
	report := ReindexReport{Type: t}
	indexed := make(map[uuid.UUID]struct{})
	for page := 1; ; page++ {
		ids, err := builder.Candidates(ctx, page, s.pageSize)
		if err != nil {
			telemetry.RecordError(span, err)
			return report, fmt.Errorf("list %s candidates: %w", t, err)
		}
		for _, id := range ids {
			doc, err := builder.Build(ctx, id)
			if errors.Is(err, catalog.ErrNotIndexable) || errors.Is(err, shared.ErrNotFound) {
				report.Skipped++
				continue
			}
			if err != nil {
				telemetry.RecordError(span, err)
				return report, fmt.Errorf("build %s: %w", catalog.DocumentKey(t, id), err)
			}
			if err := s.index.Upsert(ctx, doc); err != nil {
				telemetry.RecordError(span, err)
				return report, fmt.Errorf("upsert %s: %w", doc.Key(), err)
			}
			indexed[id] = struct{}{}
			report.Indexed++
		}
		if len(ids) < s.pageSize {
			break
		}
	}

	existing, err := s.index.IDs(ctx, t)
	if err != nil {
		telemetry.RecordError(span, err)
		return report, fmt.Errorf("list indexed %s: %w", t, err)
	}
	for _, id := range existing {
		if _, ok := indexed[id]; ok {
			continue
		}
		// the record may have become indexable after its page was listed
		doc, err := builder.Build(ctx, id)
		if err == nil {
			if err := s.index.Upsert(ctx, doc); err != nil {
				telemetry.RecordError(span, err)
				return report, fmt.Errorf("upsert %s: %w", doc.Key(), err)
			}
			report.Indexed++
			continue
		}
		if !errors.Is(err, catalog.ErrNotIndexable) && !errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, err)
			return report, fmt.Errorf("build %s: %w", catalog.DocumentKey(t, id), err)
		}
		if err := s.index.Remove(ctx, t, id); err != nil {
			telemetry.RecordError(span, err)
			return report, fmt.Errorf("remove orphan %s: %w", catalog.DocumentKey(t, id), err)
		}
		report.Removed++
	}

	report.Duration = time.Since(start)
	s.logger.Info("catalog reindexed",
		zap.String("type", string(t)),
		zap.Int("indexed", report.Indexed),
		zap.Int("skipped", report.Skipped),
		zap.Int("removed", report.Removed),
		zap.Duration("duration", report.Duration),
	)
	telemetry.SetOK(span)
	return report, nil
}

// Run handles an operator reindex request
func (s *ReindexService) Run(ctx context.Context, req ReindexRequest) (*ReindexResponse, error) {
	types, err := ParseTypes(req.Types)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	reports, err := s.Reindex(ctx, types...)
	if err != nil {
		return nil, err
	}
	return &ReindexResponse{Reports: reports, Elapsed: time.Since(start)}, nil
}

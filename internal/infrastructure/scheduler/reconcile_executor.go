package scheduler

import (
	"context"

	"github.com/ams/backend/internal/application/indexing"
	"github.com/ams/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// Reindexer rebuilds catalog document types from the database
type Reindexer interface {
	Reindex(ctx context.Context, types ...catalog.DocumentType) ([]indexing.ReindexReport, error)
}

// ReconcileExecutor runs reconcile jobs through the reindex service
type ReconcileExecutor struct {
	reindexer Reindexer
	logger    *zap.Logger
}

// NewReconcileExecutor creates a new executor
func NewReconcileExecutor(reindexer Reindexer, logger *zap.Logger) *ReconcileExecutor {
	return &ReconcileExecutor{reindexer: reindexer, logger: logger}
}

// Execute implements JobExecutor
func (e *ReconcileExecutor) Execute(ctx context.Context, job *Job) error {
	reports, err := e.reindexer.Reindex(ctx, job.Types...)
	for _, r := range reports {
		e.logger.Info("Catalog type reconciled",
			zap.String("job_id", job.ID.String()),
			zap.String("type", string(r.Type)),
			zap.Int("indexed", r.Indexed),
			zap.Int("removed", r.Removed),
		)
	}
	return err
}

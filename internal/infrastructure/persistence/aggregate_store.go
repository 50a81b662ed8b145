package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ams/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// aggregateStore writes aggregates and their pending domain events in one
// transaction. Repositories of indexed records embed it.
type aggregateStore struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (s *aggregateStore) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	s.outboxSaver = saver
}

// save inserts a new aggregate (version 1) or updates an existing one.
// An update only applies when the stored version is older than the
// aggregate's, so a concurrent writer that saved first wins and the loser
// gets ErrConcurrencyConflict. children runs inside the same transaction.
func (s *aggregateStore) save(ctx context.Context, agg shared.AggregateRoot, children func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := writeAggregate(tx, agg); err != nil {
			return err
		}
		if children != nil {
			if err := children(tx); err != nil {
				return err
			}
		}
		return s.saveEvents(ctx, tx, agg)
	})
	if err != nil {
		return translateError(err)
	}
	agg.ClearDomainEvents()
	return nil
}

// remove deletes the aggregate row and writes its pending events
func (s *aggregateStore) remove(ctx context.Context, agg shared.AggregateRoot, children func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if children != nil {
			if err := children(tx); err != nil {
				return err
			}
		}
		result := tx.Delete(agg)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return s.saveEvents(ctx, tx, agg)
	})
	if err != nil {
		return translateError(err)
	}
	agg.ClearDomainEvents()
	return nil
}

func (s *aggregateStore) saveEvents(ctx context.Context, tx *gorm.DB, agg shared.AggregateRoot) error {
	events := agg.GetDomainEvents()
	if s.outboxSaver == nil || len(events) == 0 {
		return nil
	}
	if err := s.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}
	return nil
}

func writeAggregate(tx *gorm.DB, agg shared.AggregateRoot) error {
	if agg.GetVersion() <= 1 {
		return tx.Omit(clause.Associations).Create(agg).Error
	}
	result := tx.Model(agg).
		Omit(clause.Associations).
		Where("version < ?", agg.GetVersion()).
		Select("*").
		Updates(agg)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// translateError maps driver errors to domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrInUse
	}
	return err
}

// first loads one row into dest, translating not-found
func first(query *gorm.DB, dest any) error {
	return translateError(query.First(dest).Error)
}

// listSpec describes how a repository maps shared.Filter onto its table
type listSpec struct {
	sortFields  map[string]bool
	defaultSort string
	// searchColumns are matched case-insensitively against Filter.Search
	searchColumns []string
	// filterColumns maps Filter.Filters keys to columns compared for equality
	filterColumns map[string]string
}

// where applies search and equality filters
func (l listSpec) where(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" && len(l.searchColumns) > 0 {
		pattern := "%" + strings.ToLower(search) + "%"
		conds := make([]string, len(l.searchColumns))
		args := make([]any, len(l.searchColumns))
		for i, col := range l.searchColumns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}
	for key, value := range filter.Filters {
		col, ok := l.filterColumns[key]
		if !ok {
			continue
		}
		if value == nil {
			query = query.Where(col + " IS NULL")
			continue
		}
		query = query.Where(col+" = ?", value)
	}
	return query
}

// page applies ordering and pagination
func (l listSpec) page(query *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, l.sortFields, l.defaultSort)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// findAll runs a filtered, paged query into dest
func (l listSpec) findAll(ctx context.Context, db *gorm.DB, model, dest any, filter shared.Filter) error {
	query := l.page(l.where(db.WithContext(ctx).Model(model), filter), filter)
	return query.Find(dest).Error
}

// count runs a filtered count
func (l listSpec) count(ctx context.Context, db *gorm.DB, model any, filter shared.Filter) (int64, error) {
	var total int64
	err := l.where(db.WithContext(ctx).Model(model), filter).Count(&total).Error
	return total, err
}

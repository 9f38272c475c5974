package repository

import (
	"errors"

	domainRepo "telemed-platform/internal/domain/repository"

	"gorm.io/gorm"
)

// store is the generic gorm-backed record store embedded by the per-entity
// repositories: create, single-row fetch, save, delete, and filtered list
// with limit/offset pagination. A single-row fetch that matches no rows is
// a normal empty result, not an error.
type store[T any] struct{}

func (s *store[T]) create(db *gorm.DB, row *T) error {
	return db.Create(row).Error
}

func (s *store[T]) findByID(db *gorm.DB, id interface{}, preloads ...string) (*T, error) {
	var row T
	q := db
	for _, p := range preloads {
		q = q.Preload(p)
	}
	err := q.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *store[T]) save(db *gorm.DB, row *T) error {
	return db.Save(row).Error
}

func (s *store[T]) deleteByID(db *gorm.DB, id interface{}) error {
	var row T
	return db.Where("id = ?", id).Delete(&row).Error
}

func (s *store[T]) list(db *gorm.DB, opts domainRepo.ListOptions, preloads ...string) ([]T, int64, error) {
	var rows []T
	q := db.Model(new(T))
	for column, value := range opts.Filters {
		q = q.Where(column+" = ?", value)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, p := range preloads {
		q = q.Preload(p)
	}
	q = q.Order(orderClause(opts.OrderBy))
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// orderClause appends the primary key as tiebreak so limit/offset windows
// stay contiguous and non-overlapping when sort keys collide. Callers pass
// OrderBy values without an id column.
func orderClause(orderBy string) string {
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	return orderBy + ", id"
}

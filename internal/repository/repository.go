package repository

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	apperrors "chronicle/internal/errors"
	"chronicle/internal/query"
)

// ListResult is the envelope returned by List. Total counts every record,
// TotalFiltered applies the specification's filter only, Data applies
// filter, sort, and pagination.
type ListResult[E any] struct {
	Data          []*E
	Total         int64
	TotalFiltered int64
}

// Repository executes compiled specifications against the store and maps
// records to entities through the injected Mapper. Records are expected to
// carry their identifier in an "id" column. One repository value serves
// all callers; it holds no per-request state.
type Repository[E any, ID comparable, R any] struct {
	db     *gorm.DB
	mapper Mapper[E, ID, R]
}

// New builds a repository for the given store handle and mapper.
func New[E any, ID comparable, R any](db *gorm.DB, mapper Mapper[E, ID, R]) *Repository[E, ID, R] {
	return &Repository[E, ID, R]{db: db, mapper: mapper}
}

// IsNotFound reports whether err is the repository's not-found error.
func IsNotFound(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == apperrors.ErrNotFound.Code
}

// FindMany returns every entity matching the specification, sorted and
// paginated as the specification asks. No match is an empty slice, not an
// error.
func (r *Repository[E, ID, R]) FindMany(ctx context.Context, spec *query.Specification) ([]*E, error) {
	tx := r.db.WithContext(ctx).Model(new(R))
	if expr := query.CompileFilter(spec); expr != nil {
		tx = tx.Where(expr)
	}
	for _, col := range query.CompileSort(spec) {
		tx = tx.Order(col)
	}
	if spec != nil {
		offset, limit := spec.Pagination.Resolve()
		if offset > 0 {
			tx = tx.Offset(offset)
		}
		if limit > 0 {
			tx = tx.Limit(limit)
		}
	}

	var records []R
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	entities := make([]*E, 0, len(records))
	for i := range records {
		entities = append(entities, r.mapper.ToEntity(&records[i]))
	}
	return entities, nil
}

// FindOne returns the first match of the specification's filter, ignoring
// its sort and pagination, or nil when nothing matches.
func (r *Repository[E, ID, R]) FindOne(ctx context.Context, spec *query.Specification) (*E, error) {
	tx := r.db.WithContext(ctx).Model(new(R))
	if expr := query.CompileFilter(spec); expr != nil {
		tx = tx.Where(expr)
	}

	var record R
	if err := tx.Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&record), nil
}

// Count returns the number of records matching the specification's
// filter; a nil specification counts everything.
func (r *Repository[E, ID, R]) Count(ctx context.Context, spec *query.Specification) (int64, error) {
	tx := r.db.WithContext(ctx).Model(new(R))
	if expr := query.CompileFilter(spec); expr != nil {
		tx = tx.Where(expr)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists reports whether FindOne would return a result.
func (r *Repository[E, ID, R]) Exists(ctx context.Context, spec *query.Specification) (bool, error) {
	entity, err := r.FindOne(ctx, spec)
	if err != nil {
		return false, err
	}
	return entity != nil, nil
}

// Create persists the entity and returns it rebuilt from the stored
// record, so store-assigned fields (identifier, default timestamp) are
// reflected back.
func (r *Repository[E, ID, R]) Create(ctx context.Context, entity *E) (*E, error) {
	record := r.mapper.ToRecord(entity)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(record), nil
}

// Update replaces the record identified by the entity's id and returns
// the stored result. A missing identifier fails with the not-found error.
func (r *Repository[E, ID, R]) Update(ctx context.Context, entity *E) (*E, error) {
	id := r.mapper.ExtractID(entity)
	record := r.mapper.ToRecord(entity)

	var updated R
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(new(R)).Where("id = ?", id).Select("*").Omit("id").Updates(record)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return tx.Where("id = ?", id).Take(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&updated), nil
}

// Delete removes the record with the given identifier. Deleting an absent
// identifier is a no-op.
func (r *Repository[E, ID, R]) Delete(ctx context.Context, id ID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(new(R)).Error
}

// CreateMany inserts the batch in a single implicit transaction, so the
// batch is all-or-nothing. An empty batch is a no-op.
func (r *Repository[E, ID, R]) CreateMany(ctx context.Context, entities []*E) ([]*E, error) {
	if len(entities) == 0 {
		return []*E{}, nil
	}

	records := make([]R, 0, len(entities))
	for _, entity := range entities {
		records = append(records, *r.mapper.ToRecord(entity))
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}

	created := make([]*E, 0, len(records))
	for i := range records {
		created = append(created, r.mapper.ToEntity(&records[i]))
	}
	return created, nil
}

// UpdateMany updates each entity concurrently. Entities whose identifier
// no longer exists are dropped from the result rather than failing the
// batch; any other error aborts with that error. The batch is not atomic.
func (r *Repository[E, ID, R]) UpdateMany(ctx context.Context, entities []*E) ([]*E, error) {
	if len(entities) == 0 {
		return []*E{}, nil
	}

	results := make([]*E, len(entities))
	errs := make([]error, len(entities))

	var wg sync.WaitGroup
	for i, entity := range entities {
		wg.Add(1)
		go func(i int, entity *E) {
			defer wg.Done()
			updated, err := r.Update(ctx, entity)
			if err != nil {
				if !IsNotFound(err) {
					errs[i] = err
				}
				return
			}
			results[i] = updated
		}(i, entity)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	updated := make([]*E, 0, len(results))
	for _, entity := range results {
		if entity != nil {
			updated = append(updated, entity)
		}
	}
	return updated, nil
}

// DeleteMany removes every record whose identifier is in ids. Absent
// identifiers are ignored; an empty set is a no-op.
func (r *Repository[E, ID, R]) DeleteMany(ctx context.Context, ids []ID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(new(R)).Error
}

// List runs the unconditional count, the filtered count, and the
// paginated page as three separate reads. Concurrent writers can make the
// counts inconsistent with the page; callers needing a snapshot must
// arrange one themselves.
func (r *Repository[E, ID, R]) List(ctx context.Context, spec *query.Specification) (*ListResult[E], error) {
	total, err := r.Count(ctx, nil)
	if err != nil {
		return nil, err
	}

	totalFiltered, err := r.Count(ctx, spec.WithoutPagination())
	if err != nil {
		return nil, err
	}

	data, err := r.FindMany(ctx, spec)
	if err != nil {
		return nil, err
	}

	return &ListResult[E]{Data: data, Total: total, TotalFiltered: totalFiltered}, nil
}

// Package repository provides the single generic CRUD core over the backing
// store. Each entity service composes one Repo instead of re-deriving
// fetch/insert/update/delete logic per entity type.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested id has no row.
var ErrNotFound = errors.New("record not found")

// Scope narrows a list or count query, e.g. to one company or one parent row.
type Scope func(*gorm.DB) *gorm.DB

// ByCompany restricts to rows of one company.
func ByCompany(companyID string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// ByTask restricts to child rows of one task.
func ByTask(taskID string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("task_id = ?", taskID)
	}
}

// ByTeam restricts to membership rows of one team.
func ByTeam(teamID string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("team_id = ?", teamID)
	}
}

// Repo is a generic store accessor for wire records of type R exposed as view
// models of type V. All reads are ordered by creation time, matching the
// default fetch order the listings rely on.
type Repo[R any, V any] struct {
	db     *gorm.DB
	toView func(R) V
}

// New creates a repository for R mapped through toView.
func New[R any, V any](db *gorm.DB, toView func(R) V) *Repo[R, V] {
	return &Repo[R, V]{db: db, toView: toView}
}

// List fetches all rows matching the scopes, in creation order.
func (r *Repo[R, V]) List(ctx context.Context, scopes ...Scope) ([]V, error) {
	var recs []R
	q := r.db.WithContext(ctx).Order("created_at ASC")
	for _, s := range scopes {
		q = s(q)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make([]V, len(recs))
	for i, rec := range recs {
		out[i] = r.toView(rec)
	}
	return out, nil
}

// Get fetches one row by id.
func (r *Repo[R, V]) Get(ctx context.Context, id string) (V, error) {
	var rec R
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		var zero V
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return r.toView(rec), nil
}

// Create inserts a row and returns the mapped result, including the
// server-assigned id.
func (r *Repo[R, V]) Create(ctx context.Context, rec *R) (V, error) {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		var zero V
		return zero, err
	}
	return r.toView(*rec), nil
}

// Update applies a partial update built from the caller's writable-field
// allowlist, then returns the refreshed row.
func (r *Repo[R, V]) Update(ctx context.Context, id string, updates map[string]interface{}) (V, error) {
	var rec R
	var zero V

	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&rec).Updates(updates).Error; err != nil {
			return zero, err
		}
		if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
			return zero, err
		}
	}

	return r.toView(rec), nil
}

// Delete removes one row by id.
func (r *Repo[R, V]) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(new(R), "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count counts rows matching the scopes.
func (r *Repo[R, V]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(new(R))
	for _, s := range scopes {
		q = s(q)
	}
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

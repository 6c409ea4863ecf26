// Package audit persists the audit trail written by the audit service.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const defaultPageSize = 50

// Filter narrows List. Zero fields match every event.
type Filter struct {
	UserID   uint
	Category entities.AuditCategory
	Limit    int
	Offset   int
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts event, stamping CreatedAt if the caller left it empty.
func (r *Repository) Append(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// List returns one page of matching events, newest first, together with
// the number of events matching f across all pages.
func (r *Repository) List(f Filter) ([]entities.AuditEvent, int64, error) {
	scope := r.db.Model(&entities.AuditEvent{})
	if f.UserID != 0 {
		scope = scope.Where("user_id = ?", f.UserID)
	}
	if f.Category != "" {
		scope = scope.Where("category = ?", f.Category)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	offset := max(f.Offset, 0)

	var page []entities.AuditEvent
	err := scope.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&page).Error
	return page, total, err
}

// PurgeBefore deletes events created before cutoff and reports how many
// rows went away.
func (r *Repository) PurgeBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return res.RowsAffected, res.Error
}

package mysql

import (
	"context"

	"gorm.io/gorm"

	activityDomain "chama-backend/internal/domain/activity"
)

type ActivityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) *ActivityRepository { return &ActivityRepository{db: db} }

// Append only; activity rows are never updated or deleted.
func (r *ActivityRepository) Append(ctx context.Context, a *activityDomain.Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ActivityRepository) ListByGroup(ctx context.Context, groupID string, limit int) ([]activityDomain.Activity, error) {
	var out []activityDomain.Activity
	res := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

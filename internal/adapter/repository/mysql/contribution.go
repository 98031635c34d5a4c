package mysql

import (
	"context"

	"gorm.io/gorm"

	contribDomain "chama-backend/internal/domain/contribution"
)

type ContributionRepository struct{ db *gorm.DB }

func NewContributionRepository(db *gorm.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

func (r *ContributionRepository) Create(ctx context.Context, c *contribDomain.Contribution) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContributionRepository) GetByContributionID(ctx context.Context, contributionID string) (*contribDomain.Contribution, error) {
	var out contribDomain.Contribution
	res := r.db.WithContext(ctx).Where("contribution_id = ?", contributionID).First(&out)
	return &out, res.Error
}

func (r *ContributionRepository) Save(ctx context.Context, c *contribDomain.Contribution) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ContributionRepository) ListCompleted(ctx context.Context, groupID, userID string, period *contribDomain.Period, limit int) ([]contribDomain.Contribution, error) {
	q := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, contribDomain.StatusCompleted).
		Order("year DESC, month DESC, id DESC")
	if period != nil {
		q = q.Where("month = ? AND year = ?", period.Month, period.Year)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []contribDomain.Contribution
	res := q.Find(&out)
	return out, res.Error
}

func (r *ContributionRepository) HasCompletedForPeriod(ctx context.Context, groupID, userID string, month, year int) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&contribDomain.Contribution{}).
		Where("group_id = ? AND user_id = ? AND status = ? AND month = ? AND year = ?",
			groupID, userID, contribDomain.StatusCompleted, month, year).
		Count(&n)
	return n > 0, res.Error
}

package contribmock

import (
	"context"
	"errors"

	domain "chama-backend/internal/domain/contribution"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("contribmock: method not implemented")

// Repo is a function-backed mock satisfying contribution.Repository.
type Repo struct {
	CreateFn                func(ctx context.Context, c *domain.Contribution) error
	GetByContributionIDFn   func(ctx context.Context, contributionID string) (*domain.Contribution, error)
	SaveFn                  func(ctx context.Context, c *domain.Contribution) error
	ListCompletedFn         func(ctx context.Context, groupID, userID string, period *domain.Period, limit int) ([]domain.Contribution, error)
	HasCompletedForPeriodFn func(ctx context.Context, groupID, userID string, month, year int) (bool, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Contribution) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByContributionID(ctx context.Context, contributionID string) (*domain.Contribution, error) {
	if m.GetByContributionIDFn != nil {
		return m.GetByContributionIDFn(ctx, contributionID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, c *domain.Contribution) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) ListCompleted(ctx context.Context, groupID, userID string, period *domain.Period, limit int) ([]domain.Contribution, error) {
	if m.ListCompletedFn != nil {
		return m.ListCompletedFn(ctx, groupID, userID, period, limit)
	}
	return nil, errUnimplemented
}

func (m *Repo) HasCompletedForPeriod(ctx context.Context, groupID, userID string, month, year int) (bool, error) {
	if m.HasCompletedForPeriodFn != nil {
		return m.HasCompletedForPeriodFn(ctx, groupID, userID, month, year)
	}
	return false, errUnimplemented
}

package activitymock

import (
	"context"
	"errors"

	domain "chama-backend/internal/domain/activity"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("activitymock: method not implemented")

// Repo is a function-backed mock satisfying activity.Repository.
type Repo struct {
	AppendFn      func(ctx context.Context, a *domain.Activity) error
	ListByGroupFn func(ctx context.Context, groupID string, limit int) ([]domain.Activity, error)
}

func (m *Repo) Append(ctx context.Context, a *domain.Activity) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, a)
	}
	return nil
}

func (m *Repo) ListByGroup(ctx context.Context, groupID string, limit int) ([]domain.Activity, error) {
	if m.ListByGroupFn != nil {
		return m.ListByGroupFn(ctx, groupID, limit)
	}
	return nil, errUnimplemented
}

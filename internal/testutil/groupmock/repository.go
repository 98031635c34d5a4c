package groupmock

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domain "chama-backend/internal/domain/group"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("groupmock: method not implemented")

// Repo is a function-backed mock satisfying group.Repository.
// Fill in only the fields a test needs.
type Repo struct {
	CreateGroupFn              func(ctx context.Context, g *domain.Group) error
	GetByGroupIDFn             func(ctx context.Context, groupID string) (*domain.Group, error)
	SaveGroupFn                func(ctx context.Context, g *domain.Group) error
	ListGroupIDsFn             func(ctx context.Context) ([]string, error)
	CreateMemberFn             func(ctx context.Context, m *domain.Member) error
	GetMemberFn                func(ctx context.Context, groupID, userID string) (*domain.Member, error)
	ListActiveMembersFn        func(ctx context.Context, groupID string) ([]domain.Member, error)
	IncrementUnpaidPenaltiesFn func(ctx context.Context, groupID, userID string, amount decimal.Decimal) error
}

func (m *Repo) CreateGroup(ctx context.Context, g *domain.Group) error {
	if m.CreateGroupFn != nil {
		return m.CreateGroupFn(ctx, g)
	}
	return nil
}

func (m *Repo) GetByGroupID(ctx context.Context, groupID string) (*domain.Group, error) {
	if m.GetByGroupIDFn != nil {
		return m.GetByGroupIDFn(ctx, groupID)
	}
	return nil, errUnimplemented
}

func (m *Repo) SaveGroup(ctx context.Context, g *domain.Group) error {
	if m.SaveGroupFn != nil {
		return m.SaveGroupFn(ctx, g)
	}
	return nil
}

func (m *Repo) ListGroupIDs(ctx context.Context) ([]string, error) {
	if m.ListGroupIDsFn != nil {
		return m.ListGroupIDsFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) CreateMember(ctx context.Context, mem *domain.Member) error {
	if m.CreateMemberFn != nil {
		return m.CreateMemberFn(ctx, mem)
	}
	return nil
}

func (m *Repo) GetMember(ctx context.Context, groupID, userID string) (*domain.Member, error) {
	if m.GetMemberFn != nil {
		return m.GetMemberFn(ctx, groupID, userID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListActiveMembers(ctx context.Context, groupID string) ([]domain.Member, error) {
	if m.ListActiveMembersFn != nil {
		return m.ListActiveMembersFn(ctx, groupID)
	}
	return nil, errUnimplemented
}

func (m *Repo) IncrementUnpaidPenalties(ctx context.Context, groupID, userID string, amount decimal.Decimal) error {
	if m.IncrementUnpaidPenaltiesFn != nil {
		return m.IncrementUnpaidPenaltiesFn(ctx, groupID, userID, amount)
	}
	return errUnimplemented
}

package group

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateGroup(ctx context.Context, g *Group) error
	GetByGroupID(ctx context.Context, groupID string) (*Group, error)
	SaveGroup(ctx context.Context, g *Group) error
	ListGroupIDs(ctx context.Context) ([]string, error)

	CreateMember(ctx context.Context, m *Member) error
	GetMember(ctx context.Context, groupID, userID string) (*Member, error)
	ListActiveMembers(ctx context.Context, groupID string) ([]Member, error)
	// IncrementUnpaidPenalties must be a single store-level
	// "SET x = x + ?" update, never read-modify-write.
	IncrementUnpaidPenalties(ctx context.Context, groupID, userID string, amount decimal.Decimal) error
}

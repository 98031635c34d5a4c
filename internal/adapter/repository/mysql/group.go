package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	groupDomain "chama-backend/internal/domain/group"
)

type GroupRepository struct{ db *gorm.DB }

func NewGroupRepository(db *gorm.DB) *GroupRepository { return &GroupRepository{db: db} }

func (r *GroupRepository) CreateGroup(ctx context.Context, g *groupDomain.Group) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GroupRepository) GetByGroupID(ctx context.Context, groupID string) (*groupDomain.Group, error) {
	var out groupDomain.Group
	res := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&out)
	return &out, res.Error
}

func (r *GroupRepository) SaveGroup(ctx context.Context, g *groupDomain.Group) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *GroupRepository) ListGroupIDs(ctx context.Context) ([]string, error) {
	var ids []string
	res := r.db.WithContext(ctx).
		Model(&groupDomain.Group{}).
		Order("id ASC").
		Pluck("group_id", &ids)
	return ids, res.Error
}

func (r *GroupRepository) CreateMember(ctx context.Context, m *groupDomain.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *GroupRepository) GetMember(ctx context.Context, groupID, userID string) (*groupDomain.Member, error) {
	var out groupDomain.Member
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&out)
	return &out, res.Error
}

func (r *GroupRepository) ListActiveMembers(ctx context.Context, groupID string) ([]groupDomain.Member, error) {
	var out []groupDomain.Member
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND status = ?", groupID, groupDomain.MemberActive).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

// IncrementUnpaidPenalties is a single UPDATE so concurrent penalty
// applications never lose an increment to read-modify-write races.
func (r *GroupRepository) IncrementUnpaidPenalties(ctx context.Context, groupID, userID string, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&groupDomain.Member{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		UpdateColumn("unpaid_penalties", gorm.Expr("unpaid_penalties + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

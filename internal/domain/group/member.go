package group

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chama-backend/internal/domain/fault"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleTreasurer Role = "TREASURER"
	RoleSecretary Role = "SECRETARY"
	RoleMember    Role = "MEMBER"
)

type MemberStatus string

const (
	MemberActive  MemberStatus = "ACTIVE"
	MemberPending MemberStatus = "PENDING"
)

// Member is one user's membership in one group. The (group, user) pair is
// unique; UnpaidPenalties only grows here, repayment is a separate flow.
type Member struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	GroupID         string          `gorm:"size:32;uniqueIndex:ux_members_group_user" json:"group_id"`
	UserID          string          `gorm:"size:32;uniqueIndex:ux_members_group_user" json:"user_id"`
	Role            Role            `gorm:"size:16;default:'MEMBER'" json:"role"`
	Status          MemberStatus    `gorm:"size:16;default:'PENDING'" json:"status"`
	UnpaidPenalties decimal.Decimal `gorm:"type:decimal(18,2)" json:"unpaid_penalties"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Member) TableName() string { return "group_members" }

// Authorize checks that the member holds one of the required roles.
// Every mutating operation goes through this single check.
func (m *Member) Authorize(required ...Role) error {
	for _, r := range required {
		if m.Role == r {
			return nil
		}
	}
	return fault.Newf(fault.KindForbidden, "role %s may not perform this action", m.Role)
}

package contribution

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chama-backend/internal/domain/fault"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusCompleted, StatusFailed},
}

// Contribution is one member deposit for a month/year period. Only COMPLETED
// rows count toward eligibility and totals.
type Contribution struct {
	ID             uint64          `gorm:"primaryKey;column:id" json:"-"`
	ContributionID string          `gorm:"size:32;uniqueIndex:ux_contributions_public_id" json:"contribution_id"`
	GroupID        string          `gorm:"size:32;index:idx_contributions_group_user" json:"group_id"`
	UserID         string          `gorm:"size:32;index:idx_contributions_group_user" json:"user_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	Status         Status          `gorm:"size:16;default:'PENDING'" json:"status"`
	PaymentMethod  string          `gorm:"size:32" json:"payment_method"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Contribution) TableName() string { return "contributions" }

// Transition enforces PENDING -> COMPLETED|FAILED; settled rows are final.
func (c *Contribution) Transition(to Status) error {
	for _, next := range transitions[c.Status] {
		if next == to {
			c.Status = to
			return nil
		}
	}
	return fault.Newf(fault.KindConflict, "contribution %s cannot move %s -> %s", c.ContributionID, c.Status, to)
}

// Period is an optional month/year filter for aggregation.
type Period struct {
	Month int
	Year  int
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fault.Newf(fault.KindInvalidArgument, "month must be 1-12, got %d", p.Month)
	}
	if p.Year < 2000 {
		return fault.Newf(fault.KindInvalidArgument, "year %d out of range", p.Year)
	}
	return nil
}

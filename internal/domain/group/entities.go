package group

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chama-backend/internal/domain/fault"
	"chama-backend/internal/finance"
)

type Region string

const (
	RegionNorth   Region = "NORTH"
	RegionSouth   Region = "SOUTH"
	RegionCentral Region = "CENTRAL"
)

func (r Region) Valid() bool {
	return r == RegionNorth || r == RegionSouth || r == RegionCentral
}

type PenaltyType string

const (
	PenaltyLateMeeting      PenaltyType = "LATE_MEETING"
	PenaltyMissedMeeting    PenaltyType = "MISSED_MEETING"
	PenaltyLateContribution PenaltyType = "LATE_CONTRIBUTION"
)

func (p PenaltyType) Valid() bool {
	switch p {
	case PenaltyLateMeeting, PenaltyMissedMeeting, PenaltyLateContribution:
		return true
	}
	return false
}

// Group holds a savings group's financial policy. Fee fields equal to zero
// mean the penalty type is disabled, not free.
type Group struct {
	ID                  uint64               `gorm:"primaryKey;column:id" json:"-"`
	GroupID             string               `gorm:"size:32;uniqueIndex:ux_groups_group_id" json:"group_id"`
	Name                string               `gorm:"size:120" json:"name"`
	Region              Region               `gorm:"size:16" json:"region"`
	MonthlyContribution decimal.Decimal      `gorm:"type:decimal(18,2)" json:"monthly_contribution"`
	InterestRate        decimal.Decimal      `gorm:"type:decimal(8,4)" json:"interest_rate"`
	InterestType        finance.InterestType `gorm:"size:24" json:"interest_type"`
	MaxLoanMultiplier   decimal.Decimal      `gorm:"type:decimal(6,2)" json:"max_loan_multiplier"`
	LateMeetingFine     decimal.Decimal      `gorm:"type:decimal(18,2)" json:"late_meeting_fine"`
	MissedMeetingFine   decimal.Decimal      `gorm:"type:decimal(18,2)" json:"missed_meeting_fine"`
	LateContributionFee decimal.Decimal      `gorm:"type:decimal(18,2)" json:"late_contribution_fee"`
	SocialFundAmount    decimal.Decimal      `gorm:"type:decimal(18,2)" json:"social_fund_amount"`
	MinContribMonths    int                  `gorm:"default:3" json:"min_contribution_months"`
	NextMeetingAt       *time.Time           `json:"next_meeting_at,omitempty"`
	ContributionDueDay  int                  `gorm:"default:5" json:"contribution_due_day"`
	CreatedAt           time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (Group) TableName() string { return "groups" }

// FeeFor returns the configured fee for a penalty type. A zero fee is
// returned as-is; disabled-vs-free is the caller's rule to enforce.
func (g *Group) FeeFor(t PenaltyType) (decimal.Decimal, error) {
	switch t {
	case PenaltyLateMeeting:
		return g.LateMeetingFine, nil
	case PenaltyMissedMeeting:
		return g.MissedMeetingFine, nil
	case PenaltyLateContribution:
		return g.LateContributionFee, nil
	default:
		return decimal.Zero, fault.Newf(fault.KindInvalidArgument, "unknown penalty type %q", t)
	}
}

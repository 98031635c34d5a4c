package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chama-backend/internal/domain/fault"
	"chama-backend/internal/finance"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusActive   Status = "ACTIVE"
	StatusRepaid   Status = "REPAID"
)

// transitions is the single source of truth for legal status moves.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusActive},
	StatusActive:   {StatusRepaid},
}

// Open reports whether a loan in this status blocks new borrowing.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusApproved || s == StatusActive
}

type Loan struct {
	ID              uint64           `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string           `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	GroupID         string           `gorm:"size:32;index:idx_loans_group_user" json:"group_id"`
	UserID          string           `gorm:"size:32;index:idx_loans_group_user" json:"user_id"`
	AmountRequested decimal.Decimal  `gorm:"type:decimal(18,2)" json:"amount_requested"`
	AmountApproved  *decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount_approved,omitempty"`
	TermMonths      int              `json:"term_months"`
	Status          Status           `gorm:"size:16;default:'PENDING'" json:"status"`
	// Rate and type are snapshotted from group policy at approval; later
	// policy edits never touch an approved loan.
	InterestRate     decimal.Decimal      `gorm:"type:decimal(8,4)" json:"interest_rate"`
	InterestType     finance.InterestType `gorm:"size:24" json:"interest_type"`
	MonthlyRepayment decimal.Decimal      `gorm:"type:decimal(18,2)" json:"monthly_repayment"`
	TotalRepayment   decimal.Decimal      `gorm:"type:decimal(18,2)" json:"total_repayment"`
	RejectionReason  string               `gorm:"type:text" json:"rejection_reason,omitempty"`
	StatusUpdatedAt  time.Time            `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt        time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Transition moves the loan to a new status, rejecting illegal moves with a
// conflict, so callers never write the status field directly.
func (l *Loan) Transition(to Status, at time.Time) error {
	for _, next := range transitions[l.Status] {
		if next == to {
			l.Status = to
			l.StatusUpdatedAt = at
			return nil
		}
	}
	return fault.Newf(fault.KindConflict, "loan %s cannot move %s -> %s", l.LoanID, l.Status, to)
}

package eligibility

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	contribdomain "chama-backend/internal/domain/contribution"
	"chama-backend/internal/domain/fault"
	"chama-backend/internal/domain/group"
	"chama-backend/internal/domain/loan"
	contribuc "chama-backend/internal/usecase/contribution"
)

// Aggregator is the contribution summary dependency, satisfied by
// the contribution usecase.
type Aggregator interface {
	SummarizeCompleted(ctx context.Context, groupID, userID string, period *contribdomain.Period) (*contribuc.Summary, error)
}

type Usecase struct {
	groups       group.Repository
	loans        loan.Repository
	contribs     Aggregator
	defaultFloor int
}

// NewUsecase wires the evaluator. defaultFloor backs groups created before
// MinContribMonths existed (zero value rows).
func NewUsecase(groups group.Repository, loans loan.Repository, contribs Aggregator, defaultFloor int) *Usecase {
	if defaultFloor <= 0 {
		defaultFloor = 3
	}
	return &Usecase{groups: groups, loans: loans, contribs: contribs, defaultFloor: defaultFloor}
}

type Result struct {
	Eligible           bool            `json:"eligible"`
	ContributionsCount int             `json:"contributions_count"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	MaxLoanAmount      decimal.Decimal `json:"max_loan_amount"`
	HasActiveLoan      bool            `json:"has_active_loan"`
}

// Compute evaluates whether a member may request a loan and for how much.
// The contribution-count floor and the open-loan check gate independently;
// a member failing either is ineligible no matter how large the derived
// max amount is.
func (u *Usecase) Compute(ctx context.Context, groupID, userID string) (*Result, error) {
	g, err := u.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "group %s not found", groupID)
		}
		return nil, err
	}
	if _, err := u.groups.GetMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "member %s not found in group %s", userID, groupID)
		}
		return nil, err
	}

	sum, err := u.contribs.SummarizeCompleted(ctx, groupID, userID, nil)
	if err != nil {
		return nil, err
	}

	hasActive := false
	if _, err := u.loans.GetOpenLoan(ctx, groupID, userID); err == nil {
		hasActive = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	floor := g.MinContribMonths
	if floor <= 0 {
		floor = u.defaultFloor
	}

	return &Result{
		Eligible:           sum.Count >= floor && !hasActive,
		ContributionsCount: sum.Count,
		TotalContributions: sum.Total,
		MaxLoanAmount:      sum.Total.Mul(g.MaxLoanMultiplier),
		HasActiveLoan:      hasActive,
	}, nil
}

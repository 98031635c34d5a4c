package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chama-backend/internal/domain/activity"
	"chama-backend/internal/domain/fault"
	"chama-backend/internal/domain/group"
	domain "chama-backend/internal/domain/loan"
	"chama-backend/internal/domain/uow"
	"chama-backend/internal/finance"
	"chama-backend/internal/usecase/eligibility"
	"chama-backend/pkg/id"
)

// Evaluator is the eligibility dependency, satisfied by eligibility.Usecase.
type Evaluator interface {
	Compute(ctx context.Context, groupID, userID string) (*eligibility.Result, error)
}

type Usecase struct {
	repo        domain.Repository
	groups      group.Repository
	evaluator   Evaluator
	uow         uow.UnitOfWork
	defaultTerm int
}

func NewUsecase(repo domain.Repository, groups group.Repository, ev Evaluator, tx uow.UnitOfWork, defaultTerm int) *Usecase {
	if defaultTerm <= 0 {
		defaultTerm = 6
	}
	return &Usecase{repo: repo, groups: groups, evaluator: ev, uow: tx, defaultTerm: defaultTerm}
}

type RequestInput struct {
	GroupID    string
	UserID     string
	Amount     decimal.Decimal
	TermMonths int
}

type DTO struct {
	LoanID           string           `json:"loan_id"`
	GroupID          string           `json:"group_id"`
	UserID           string           `json:"user_id"`
	AmountRequested  decimal.Decimal  `json:"amount_requested"`
	AmountApproved   *decimal.Decimal `json:"amount_approved,omitempty"`
	TermMonths       int              `json:"term_months"`
	Status           string           `json:"status"`
	InterestRate     decimal.Decimal  `json:"interest_rate"`
	InterestType     string           `json:"interest_type"`
	MonthlyRepayment decimal.Decimal  `json:"monthly_repayment"`
	TotalRepayment   decimal.Decimal  `json:"total_repayment"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Request creates a PENDING loan after the eligibility gate passes.
func (u *Usecase) Request(ctx context.Context, in RequestInput) (*DTO, error) {
	if !in.Amount.IsPositive() {
		return nil, fault.New(fault.KindInvalidArgument, "loan amount must be positive")
	}
	if in.TermMonths <= 0 {
		in.TermMonths = u.defaultTerm
	}

	res, err := u.evaluator.Compute(ctx, in.GroupID, in.UserID)
	if err != nil {
		return nil, err
	}
	if res.HasActiveLoan {
		return nil, fault.Newf(fault.KindConflict, "member %s already has an open loan in group %s", in.UserID, in.GroupID)
	}
	if !res.Eligible {
		return nil, fault.Newf(fault.KindConflict,
			"member has %d completed contributions, below the group minimum", res.ContributionsCount)
	}
	if in.Amount.GreaterThan(res.MaxLoanAmount) {
		return nil, fault.Newf(fault.KindInvalidArgument,
			"requested %s exceeds maximum loan amount %s", in.Amount, res.MaxLoanAmount)
	}

	l := &domain.Loan{
		LoanID:          id.NewID32(),
		GroupID:         in.GroupID,
		UserID:          in.UserID,
		AmountRequested: in.Amount,
		TermMonths:      in.TermMonths,
		Status:          domain.StatusPending,
		StatusUpdatedAt: time.Now().UTC(),
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		desc := fmt.Sprintf("loan of %s requested over %d months", in.Amount, in.TermMonths)
		return r.Activities.Append(ctx, activity.New(in.GroupID, in.UserID, activity.ActionLoanRequested, desc, ""))
	})
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*DTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "loan %s not found", loanID)
		}
		return nil, err
	}
	return toDTO(l), nil
}

// Simulate computes repayment terms under the group's live policy without
// creating anything. months <= 0 uses the configured default term.
func (u *Usecase) Simulate(ctx context.Context, groupID string, principal decimal.Decimal, months int) (*finance.Terms, error) {
	g, err := u.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "group %s not found", groupID)
		}
		return nil, err
	}
	if months <= 0 {
		months = u.defaultTerm
	}
	return finance.LoanTerms(principal, g.InterestRate, g.InterestType, months)
}

func toDTO(l *domain.Loan) *DTO {
	return &DTO{
		LoanID:           l.LoanID,
		GroupID:          l.GroupID,
		UserID:           l.UserID,
		AmountRequested:  l.AmountRequested,
		AmountApproved:   l.AmountApproved,
		TermMonths:       l.TermMonths,
		Status:           string(l.Status),
		InterestRate:     l.InterestRate,
		InterestType:     string(l.InterestType),
		MonthlyRepayment: l.MonthlyRepayment,
		TotalRepayment:   l.TotalRepayment,
		CreatedAt:        l.CreatedAt,
	}
}

package approval

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
	domainLoan "chama-backend/internal/domain/loan"
	"chama-backend/internal/domain/uow"
	"chama-backend/internal/finance"
)

type Usecase struct {
	uow uow.UnitOfWork
}

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

type ApproveInput struct {
	LoanID string
	// ApproverUserID must hold ADMIN or TREASURER in the loan's group.
	ApproverUserID string
	// AmountApproved defaults to the requested amount when nil.
	AmountApproved *decimal.Decimal
}

type DTO struct {
	LoanID           string          `json:"loan_id"`
	Status           string          `json:"status"`
	AmountApproved   decimal.Decimal `json:"amount_approved"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	InterestType     string          `json:"interest_type"`
	MonthlyRepayment decimal.Decimal `json:"monthly_repayment"`
	TotalRepayment   decimal.Decimal `json:"total_repayment"`
	StatusUpdatedAt  time.Time       `json:"status_updated_at"`
}

// Approve moves a pending loan to APPROVED inside one transaction: row lock,
// role check, status transition, policy snapshot, terms computation and the
// audit entry all commit or roll back together.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*DTO, error) {
	var dto *DTO

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		actor, err := r.Groups.GetMember(ctx, l.GroupID, in.ApproverUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.Newf(fault.KindNotFound, "approver %s is not a member of group %s", in.ApproverUserID, l.GroupID)
			}
			return err
		}
		if err := actor.Authorize(group.RoleAdmin, group.RoleTreasurer); err != nil {
			return err
		}

		g, err := r.Groups.GetByGroupID(ctx, l.GroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.Newf(fault.KindNotFound, "group %s not found", l.GroupID)
			}
			return err
		}

		if err := l.Transition(domainLoan.StatusApproved, time.Now().UTC()); err != nil {
			return err
		}

		amount := l.AmountRequested
		if in.AmountApproved != nil {
			if !in.AmountApproved.IsPositive() {
				return fault.New(fault.KindInvalidArgument, "approved amount must be positive")
			}
			amount = *in.AmountApproved
		}

		// Snapshot live policy onto the loan; later policy edits must never
		// change the terms of an approved loan.
		terms, err := finance.LoanTerms(amount, g.InterestRate, g.InterestType, l.TermMonths)
		if err != nil {
			return err
		}
		l.AmountApproved = &amount
		l.InterestRate = g.InterestRate
		l.InterestType = g.InterestType
		l.MonthlyRepayment = terms.MonthlyRepayment
		l.TotalRepayment = terms.TotalRepayment

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		desc := fmt.Sprintf("loan %s approved for %s at %s %s over %d months",
			l.LoanID, amount, g.InterestRate, g.InterestType, l.TermMonths)
		if err := r.Activities.Append(ctx, activity.New(l.GroupID, in.ApproverUserID, activity.ActionLoanApproved, desc, "")); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "loan %s not found", in.LoanID)
		}
		return nil, err
	}
	return dto, nil
}

type RejectInput struct {
	LoanID         string
	ApproverUserID string
	Reason         string
}

func (u *Usecase) Reject(ctx context.Context, in RejectInput) (*DTO, error) {
	var dto *DTO

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		actor, err := r.Groups.GetMember(ctx, l.GroupID, in.ApproverUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.Newf(fault.KindNotFound, "approver %s is not a member of group %s", in.ApproverUserID, l.GroupID)
			}
			return err
		}
		if err := actor.Authorize(group.RoleAdmin, group.RoleTreasurer); err != nil {
			return err
		}

		if err := l.Transition(domainLoan.StatusRejected, time.Now().UTC()); err != nil {
			return err
		}
		l.RejectionReason = in.Reason

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		desc := fmt.Sprintf("loan %s rejected: %s", l.LoanID, in.Reason)
		if err := r.Activities.Append(ctx, activity.New(l.GroupID, in.ApproverUserID, activity.ActionLoanRejected, desc, "")); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "loan %s not found", in.LoanID)
		}
		return nil, err
	}
	return dto, nil
}

// Disburse moves an APPROVED loan to ACTIVE once funds are handed over.
func (u *Usecase) Disburse(ctx context.Context, loanID, actorUserID string) (*DTO, error) {
	var dto *DTO

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		actor, err := r.Groups.GetMember(ctx, l.GroupID, actorUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.Newf(fault.KindNotFound, "actor %s is not a member of group %s", actorUserID, l.GroupID)
			}
			return err
		}
		if err := actor.Authorize(group.RoleAdmin, group.RoleTreasurer); err != nil {
			return err
		}

		if err := l.Transition(domainLoan.StatusActive, time.Now().UTC()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		desc := fmt.Sprintf("loan %s disbursed", l.LoanID)
		if err := r.Activities.Append(ctx, activity.New(l.GroupID, actorUserID, activity.ActionLoanDisbursed, desc, "")); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "loan %s not found", loanID)
		}
		return nil, err
	}
	return dto, nil
}

func toDTO(l *domainLoan.Loan) *DTO {
	approved := decimal.Zero
	if l.AmountApproved != nil {
		approved = *l.AmountApproved
	}
	return &DTO{
		LoanID:           l.LoanID,
		Status:           string(l.Status),
		AmountApproved:   approved,
		InterestRate:     l.InterestRate,
		InterestType:     string(l.InterestType),
		MonthlyRepayment: l.MonthlyRepayment,
		TotalRepayment:   l.TotalRepayment,
		StatusUpdatedAt:  l.StatusUpdatedAt,
	}
}

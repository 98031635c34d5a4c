package contribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chama-backend/internal/domain/activity"
	domain "chama-backend/internal/domain/contribution"
	"chama-backend/internal/domain/fault"
	"chama-backend/internal/domain/group"
	"chama-backend/internal/domain/uow"
	"chama-backend/pkg/id"
)

type Usecase struct {
	repo   domain.Repository
	groups group.Repository
	uow    uow.UnitOfWork
	// lookback caps how many completed rows aggregation inspects;
	// 0 means a true lifetime total.
	lookback int
}

func NewUsecase(repo domain.Repository, groups group.Repository, tx uow.UnitOfWork, lookback int) *Usecase {
	return &Usecase{repo: repo, groups: groups, uow: tx, lookback: lookback}
}

// Summary is the aggregation result feeding loan eligibility.
type Summary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// SummarizeCompleted counts and sums a member's COMPLETED contributions.
// period is an optional month/year filter. No side effects.
func (u *Usecase) SummarizeCompleted(ctx context.Context, groupID, userID string, period *domain.Period) (*Summary, error) {
	if period != nil {
		if err := period.Validate(); err != nil {
			return nil, err
		}
	}
	rows, err := u.repo.ListCompleted(ctx, groupID, userID, period, u.lookback)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Total: decimal.Zero}
	for _, c := range rows {
		sum.Count++
		sum.Total = sum.Total.Add(c.Amount)
	}
	return sum, nil
}

type RecordInput struct {
	GroupID       string
	UserID        string
	Amount        decimal.Decimal
	Month         int
	Year          int
	PaymentMethod string
}

type DTO struct {
	ContributionID string          `json:"contribution_id"`
	GroupID        string          `json:"group_id"`
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"payment_method"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Record creates a PENDING contribution for an active member.
func (u *Usecase) Record(ctx context.Context, in RecordInput) (*DTO, error) {
	if !in.Amount.IsPositive() {
		return nil, fault.New(fault.KindInvalidArgument, "contribution amount must be positive")
	}
	if err := (domain.Period{Month: in.Month, Year: in.Year}).Validate(); err != nil {
		return nil, err
	}
	m, err := u.groups.GetMember(ctx, in.GroupID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "member %s not found in group %s", in.UserID, in.GroupID)
		}
		return nil, err
	}
	if m.Status != group.MemberActive {
		return nil, fault.New(fault.KindForbidden, "membership is not active")
	}

	c := &domain.Contribution{
		ContributionID: id.NewID32(),
		GroupID:        in.GroupID,
		UserID:         in.UserID,
		Amount:         in.Amount,
		Month:          in.Month,
		Year:           in.Year,
		Status:         domain.StatusPending,
		PaymentMethod:  in.PaymentMethod,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Contributions.Create(ctx, c); err != nil {
			return err
		}
		desc := fmt.Sprintf("contribution of %s recorded for %d/%d", in.Amount, in.Month, in.Year)
		return r.Activities.Append(ctx, activity.New(in.GroupID, in.UserID, activity.ActionContributionRecorded, desc, ""))
	})
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

// Settle moves a PENDING contribution to COMPLETED or FAILED.
func (u *Usecase) Settle(ctx context.Context, contributionID string, to domain.Status) (*DTO, error) {
	if to != domain.StatusCompleted && to != domain.StatusFailed {
		return nil, fault.Newf(fault.KindInvalidArgument, "cannot settle to %q", to)
	}
	var out *DTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Contributions.GetByContributionID(ctx, contributionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.Newf(fault.KindNotFound, "contribution %s not found", contributionID)
			}
			return err
		}
		if err := c.Transition(to); err != nil {
			return err
		}
		if err := r.Contributions.Save(ctx, c); err != nil {
			return err
		}
		desc := fmt.Sprintf("contribution %s marked %s", c.ContributionID, to)
		if err := r.Activities.Append(ctx, activity.New(c.GroupID, c.UserID, activity.ActionContributionSettled, desc, "")); err != nil {
			return err
		}
		out = toDTO(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toDTO(c *domain.Contribution) *DTO {
	return &DTO{
		ContributionID: c.ContributionID,
		GroupID:        c.GroupID,
		UserID:         c.UserID,
		Amount:         c.Amount,
		Month:          c.Month,
		Year:           c.Year,
		Status:         string(c.Status),
		PaymentMethod:  c.PaymentMethod,
		CreatedAt:      c.CreatedAt,
	}
}

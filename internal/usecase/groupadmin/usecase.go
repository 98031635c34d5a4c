package groupadmin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chama-backend/internal/domain/activity"
	"chama-backend/internal/domain/fault"
	domain "chama-backend/internal/domain/group"
	"chama-backend/internal/domain/uow"
	"chama-backend/internal/finance"
	"chama-backend/pkg/id"
)

type Usecase struct {
	groups     domain.Repository
	activities activity.Repository
	uow        uow.UnitOfWork
}

func NewUsecase(groups domain.Repository, activities activity.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{groups: groups, activities: activities, uow: tx}
}

type CreateInput struct {
	Name                string
	Region              domain.Region
	MonthlyContribution decimal.Decimal
	InterestRate        decimal.Decimal
	InterestType        finance.InterestType
	MaxLoanMultiplier   decimal.Decimal
	LateMeetingFine     decimal.Decimal
	MissedMeetingFine   decimal.Decimal
	LateContributionFee decimal.Decimal
	SocialFundAmount    decimal.Decimal
	MinContribMonths    int
	ContributionDueDay  int
	CreatorUserID       string
}

func (in *CreateInput) validate() error {
	if in.Name == "" {
		return fault.New(fault.KindInvalidArgument, "group name is required")
	}
	if !in.Region.Valid() {
		return fault.Newf(fault.KindInvalidArgument, "unknown region %q", in.Region)
	}
	if !in.InterestType.Valid() {
		return fault.Newf(fault.KindInvalidArgument, "unknown interest type %q", in.InterestType)
	}
	if in.MaxLoanMultiplier.LessThan(decimal.NewFromInt(1)) {
		return fault.New(fault.KindInvalidArgument, "max loan multiplier must be at least 1")
	}
	if in.InterestRate.IsNegative() {
		return fault.New(fault.KindInvalidArgument, "interest rate must not be negative")
	}
	for _, fee := range []decimal.Decimal{in.LateMeetingFine, in.MissedMeetingFine, in.LateContributionFee, in.SocialFundAmount} {
		if fee.IsNegative() {
			return fault.New(fault.KindInvalidArgument, "fees must not be negative")
		}
	}
	if !in.MonthlyContribution.IsPositive() {
		return fault.New(fault.KindInvalidArgument, "monthly contribution must be positive")
	}
	return nil
}

// Create provisions a group and enrolls the creator as its ADMIN in one
// all-or-nothing transaction.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.Group, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	minMonths := in.MinContribMonths
	if minMonths <= 0 {
		minMonths = 3
	}
	dueDay := in.ContributionDueDay
	if dueDay <= 0 {
		dueDay = 5
	}

	g := &domain.Group{
		GroupID:             id.NewID32(),
		Name:                in.Name,
		Region:              in.Region,
		MonthlyContribution: in.MonthlyContribution,
		InterestRate:        in.InterestRate,
		InterestType:        in.InterestType,
		MaxLoanMultiplier:   in.MaxLoanMultiplier,
		LateMeetingFine:     in.LateMeetingFine,
		MissedMeetingFine:   in.MissedMeetingFine,
		LateContributionFee: in.LateContributionFee,
		SocialFundAmount:    in.SocialFundAmount,
		MinContribMonths:    minMonths,
		ContributionDueDay:  dueDay,
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Groups.CreateGroup(ctx, g); err != nil {
			return err
		}
		creator := &domain.Member{
			GroupID: g.GroupID,
			UserID:  in.CreatorUserID,
			Role:    domain.RoleAdmin,
			Status:  domain.MemberActive,
		}
		if err := r.Groups.CreateMember(ctx, creator); err != nil {
			return err
		}
		desc := fmt.Sprintf("group %q created in region %s", in.Name, in.Region)
		return r.Activities.Append(ctx, activity.New(g.GroupID, in.CreatorUserID, activity.ActionGroupCreated, desc, ""))
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (u *Usecase) Get(ctx context.Context, groupID string) (*domain.Group, error) {
	g, err := u.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "group %s not found", groupID)
		}
		return nil, err
	}
	return g, nil
}

// Activities returns the newest audit entries for a group.
func (u *Usecase) Activities(ctx context.Context, groupID string, limit int) ([]activity.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if _, err := u.groups.GetByGroupID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "group %s not found", groupID)
		}
		return nil, err
	}
	return u.activities.ListByGroup(ctx, groupID, limit)
}

// UpdateNextMeeting records the next scheduled meeting; only group admins
// may change it.
func (u *Usecase) UpdateNextMeeting(ctx context.Context, groupID, actorUserID string, at time.Time) error {
	actor, err := u.groups.GetMember(ctx, groupID, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fault.Newf(fault.KindNotFound, "actor %s is not a member of group %s", actorUserID, groupID)
		}
		return err
	}
	if err := actor.Authorize(domain.RoleAdmin, domain.RoleSecretary); err != nil {
		return err
	}
	g, err := u.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fault.Newf(fault.KindNotFound, "group %s not found", groupID)
		}
		return err
	}
	at = at.UTC()
	g.NextMeetingAt = &at
	return u.groups.SaveGroup(ctx, g)
}

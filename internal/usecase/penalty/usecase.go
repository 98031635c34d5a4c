package penalty

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"chama-backend/internal/domain/activity"
	"chama-backend/internal/domain/fault"
	"chama-backend/internal/domain/group"
	"chama-backend/internal/domain/uow"
)

// Notifier delivers a best-effort penalty notice. Delivery failures are
// logged, never propagated; the balance update already committed.
type Notifier interface {
	PenaltyApplied(groupName, userID string, penaltyType group.PenaltyType, amount decimal.Decimal) error
}

type Usecase struct {
	groups   group.Repository
	uow      uow.UnitOfWork
	notifier Notifier
	log      *logrus.Logger
	now      func() time.Time
}

func NewUsecase(groups group.Repository, tx uow.UnitOfWork, notifier Notifier, log *logrus.Logger) *Usecase {
	if log == nil {
		log = logrus.New()
	}
	return &Usecase{groups: groups, uow: tx, notifier: notifier, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source; sweep tests pin "now".
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

type ApplyInput struct {
	GroupID     string
	UserID      string
	PenaltyType group.PenaltyType
	ActorUserID string
}

type ApplyResult struct {
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message"`
}

// Apply assesses one penalty against one member. The balance increment and
// the audit entry are committed in a single transaction; a zero configured
// fee means the penalty type is disabled and blocks the operation.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	if !in.PenaltyType.Valid() {
		return nil, fault.Newf(fault.KindInvalidArgument, "unknown penalty type %q", in.PenaltyType)
	}

	g, err := u.groups.GetByGroupID(ctx, in.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "group %s not found", in.GroupID)
		}
		return nil, err
	}

	actor, err := u.groups.GetMember(ctx, in.GroupID, in.ActorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "actor %s is not a member of group %s", in.ActorUserID, in.GroupID)
		}
		return nil, err
	}
	if err := actor.Authorize(group.RoleAdmin, group.RoleTreasurer); err != nil {
		return nil, err
	}

	if _, err := u.groups.GetMember(ctx, in.GroupID, in.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "member %s not found in group %s", in.UserID, in.GroupID)
		}
		return nil, err
	}

	fee, err := g.FeeFor(in.PenaltyType)
	if err != nil {
		return nil, err
	}
	if fee.IsZero() {
		return nil, fault.Newf(fault.KindConfiguration, "%s penalty is not configured for group %s", in.PenaltyType, in.GroupID)
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Groups.IncrementUnpaidPenalties(ctx, in.GroupID, in.UserID, fee); err != nil {
			return err
		}
		desc := fmt.Sprintf("%s penalty of %s applied to member %s", in.PenaltyType, fee, in.UserID)
		meta := fmt.Sprintf(`{"penalty_type":%q,"amount":%q,"member":%q}`, in.PenaltyType, fee.String(), in.UserID)
		return r.Activities.Append(ctx, activity.New(in.GroupID, in.ActorUserID, activity.ActionPenaltyApplied, desc, meta))
	})
	if err != nil {
		return nil, err
	}

	if u.notifier != nil {
		if nerr := u.notifier.PenaltyApplied(g.Name, in.UserID, in.PenaltyType, fee); nerr != nil {
			u.log.WithError(nerr).WithField("user_id", in.UserID).Warn("penalty notice not delivered")
		}
	}

	return &ApplyResult{
		Amount:  fee,
		Message: fmt.Sprintf("%s penalty of %s applied", in.PenaltyType, fee),
	}, nil
}

// SweepRequestedBy runs the group sweep on behalf of a member. Only admins
// and treasurers may trigger it; the scheduled job calls Sweep directly
// under the system identity.
func (u *Usecase) SweepRequestedBy(ctx context.Context, groupID, actorUserID string) (*SweepResult, error) {
	actor, err := u.groups.GetMember(ctx, groupID, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "actor %s is not a member of group %s", actorUserID, groupID)
		}
		return nil, err
	}
	if err := actor.Authorize(group.RoleAdmin, group.RoleTreasurer); err != nil {
		return nil, err
	}
	return u.Sweep(ctx, groupID)
}

type SweepError struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type SweepResult struct {
	PenaltiesApplied int             `json:"penalties_applied"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Errors           []SweepError    `json:"errors"`
}

// Sweep evaluates every ACTIVE member of a group independently and charges
// the late-contribution fee to those who have no COMPLETED contribution for
// the current period once the group's due day has passed. A meeting still
// scheduled for later in the current period defers the sweep, since members
// settle contributions in person there. Per-member failures are collected,
// never aborting the sweep.
func (u *Usecase) Sweep(ctx context.Context, groupID string) (*SweepResult, error) {
	g, err := u.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Newf(fault.KindNotFound, "group %s not found", groupID)
		}
		return nil, err
	}

	members, err := u.groups.ListActiveMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	res := &SweepResult{TotalAmount: decimal.Zero, Errors: []SweepError{}}

	if now.Day() <= g.ContributionDueDay {
		// Inside the grace window, nothing to assess.
		return res, nil
	}
	if m := g.NextMeetingAt; m != nil && m.Year() == now.Year() && m.Month() == now.Month() && now.Before(*m) {
		u.log.WithFields(logrus.Fields{
			"group_id":   groupID,
			"meeting_at": m.Format(time.RFC3339),
		}).Info("penalty sweep deferred until after the scheduled meeting")
		return res, nil
	}

	fee := g.LateContributionFee
	for _, m := range members {
		err := u.sweepMember(ctx, g, m, fee, now)
		switch {
		case errors.Is(err, errNotDue):
			// Paid up for this period; nothing to charge.
		case err != nil:
			res.Errors = append(res.Errors, SweepError{UserID: m.UserID, Reason: err.Error()})
		default:
			res.PenaltiesApplied++
			res.TotalAmount = res.TotalAmount.Add(fee)
		}
	}

	u.log.WithFields(logrus.Fields{
		"group_id": groupID,
		"applied":  res.PenaltiesApplied,
		"total":    res.TotalAmount.String(),
		"errors":   len(res.Errors),
	}).Info("penalty sweep finished")
	return res, nil
}

// errNotDue marks members who owe nothing this period; the sweep counts
// neither a success nor an error for them.
var errNotDue = errors.New("not due")

func (u *Usecase) sweepMember(ctx context.Context, g *group.Group, m group.Member, fee decimal.Decimal, now time.Time) error {
	var applied bool
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		paid, err := r.Contributions.HasCompletedForPeriod(ctx, g.GroupID, m.UserID, int(now.Month()), now.Year())
		if err != nil {
			return err
		}
		if paid {
			return errNotDue
		}
		if fee.IsZero() {
			return fault.Newf(fault.KindConfiguration, "%s penalty is not configured", group.PenaltyLateContribution)
		}
		if err := r.Groups.IncrementUnpaidPenalties(ctx, g.GroupID, m.UserID, fee); err != nil {
			return err
		}
		applied = true
		desc := fmt.Sprintf("%s penalty of %s applied to member %s by sweep", group.PenaltyLateContribution, fee, m.UserID)
		return r.Activities.Append(ctx, activity.New(g.GroupID, "system", activity.ActionPenaltyApplied, desc, ""))
	})
	if errors.Is(err, errNotDue) {
		return errNotDue
	}
	if err != nil {
		return err
	}
	if !applied {
		return errNotDue
	}
	return nil
}

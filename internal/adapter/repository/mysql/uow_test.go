package mysql

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	activityDomain "chama-backend/internal/domain/activity"
	loanDomain "chama-backend/internal/domain/loan"
	"chama-backend/internal/domain/uow"
	"chama-backend/pkg/id"
)

func TestGormUoW_CommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)
	tx := NewGormUoW(db)
	ctx := context.Background()

	gid, uid := seedGroupAndMember(t, db)

	err := tx.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Groups.IncrementUnpaidPenalties(ctx, gid, uid, dec(t, "500")); err != nil {
			return err
		}
		return r.Activities.Append(ctx, activityDomain.New(gid, uid, activityDomain.ActionPenaltyApplied, "late meeting", ""))
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	m, err := NewGroupRepository(db).GetMember(ctx, gid, uid)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if !m.UnpaidPenalties.Equal(dec(t, "500")) {
		t.Fatalf("unpaid=%s want 500", m.UnpaidPenalties)
	}
	acts, err := NewActivityRepository(db).ListByGroup(ctx, gid, 10)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(acts) != 1 {
		t.Fatalf("activities=%d want 1", len(acts))
	}
}

func TestGormUoW_RollsBackBothWrites(t *testing.T) {
	db := openTestDB(t)
	tx := NewGormUoW(db)
	ctx := context.Background()

	gid, uid := seedGroupAndMember(t, db)
	boom := errors.New("audit write failed")

	err := tx.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Groups.IncrementUnpaidPenalties(ctx, gid, uid, dec(t, "500")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	// The increment must not survive the rollback.
	m, err := NewGroupRepository(db).GetMember(ctx, gid, uid)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if !m.UnpaidPenalties.IsZero() {
		t.Fatalf("unpaid=%s want 0 after rollback", m.UnpaidPenalties)
	}
}

func TestGormUoW_WithinLoanTx_MissingLoan(t *testing.T) {
	db := openTestDB(t)
	tx := NewGormUoW(db)
	ctx := context.Background()

	err := tx.WithinLoanTx(ctx, id.NewID32(), func(r uow.Repos, l *loanDomain.Loan) error {
		t.Fatal("fn must not run for a missing loan")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_PassesLockedLoan(t *testing.T) {
	db := openTestDB(t)
	tx := NewGormUoW(db)
	ctx := context.Background()

	repo := NewLoanRepository(db)
	seeded := makeLoan(t, id.NewID32(), id.NewID32(), loanDomain.StatusPending)
	if err := repo.Create(ctx, seeded); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := tx.WithinLoanTx(ctx, seeded.LoanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.LoanID != seeded.LoanID {
			t.Fatalf("locked loan %s want %s", l.LoanID, seeded.LoanID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}
}

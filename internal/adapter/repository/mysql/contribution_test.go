package mysql

import (
	"context"
	"testing"

	contribDomain "chama-backend/internal/domain/contribution"
	"chama-backend/pkg/id"
)

func seedContribution(t *testing.T, repo *ContributionRepository, gid, uid string, month, year int, status contribDomain.Status) {
	t.Helper()
	c := &contribDomain.Contribution{
		ContributionID: id.NewID32(),
		GroupID:        gid,
		UserID:         uid,
		Amount:         dec(t, "10000"),
		Month:          month,
		Year:           year,
		Status:         status,
		PaymentMethod:  "MOBILE_MONEY",
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestContributionRepository_ListCompleted_FiltersStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	gid, uid := id.NewID32(), id.NewID32()
	seedContribution(t, repo, gid, uid, 1, 2026, contribDomain.StatusCompleted)
	seedContribution(t, repo, gid, uid, 2, 2026, contribDomain.StatusCompleted)
	seedContribution(t, repo, gid, uid, 3, 2026, contribDomain.StatusPending)
	seedContribution(t, repo, gid, uid, 4, 2026, contribDomain.StatusFailed)

	rows, err := repo.ListCompleted(ctx, gid, uid, nil, 0)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d want 2 (only COMPLETED)", len(rows))
	}
	// newest period first
	if rows[0].Month != 2 || rows[1].Month != 1 {
		t.Fatalf("order wrong: %d, %d", rows[0].Month, rows[1].Month)
	}
}

func TestContributionRepository_ListCompleted_LookbackCap(t *testing.T) {
	db := openTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	gid, uid := id.NewID32(), id.NewID32()
	for m := 1; m <= 12; m++ {
		seedContribution(t, repo, gid, uid, m, 2025, contribDomain.StatusCompleted)
	}
	for m := 1; m <= 3; m++ {
		seedContribution(t, repo, gid, uid, m, 2026, contribDomain.StatusCompleted)
	}

	capped, err := repo.ListCompleted(ctx, gid, uid, nil, 12)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(capped) != 12 {
		t.Fatalf("capped=%d want 12", len(capped))
	}
	// Cap keeps the most recent periods.
	if capped[0].Year != 2026 || capped[0].Month != 3 {
		t.Fatalf("newest=%d/%d", capped[0].Month, capped[0].Year)
	}

	all, err := repo.ListCompleted(ctx, gid, uid, nil, 0)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(all) != 15 {
		t.Fatalf("all=%d want 15", len(all))
	}
}

func TestContributionRepository_PeriodFilter(t *testing.T) {
	db := openTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	gid, uid := id.NewID32(), id.NewID32()
	seedContribution(t, repo, gid, uid, 5, 2026, contribDomain.StatusCompleted)
	seedContribution(t, repo, gid, uid, 6, 2026, contribDomain.StatusCompleted)

	rows, err := repo.ListCompleted(ctx, gid, uid, &contribDomain.Period{Month: 6, Year: 2026}, 0)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(rows) != 1 || rows[0].Month != 6 {
		t.Fatalf("period filter wrong: %+v", rows)
	}
}

func TestContributionRepository_HasCompletedForPeriod(t *testing.T) {
	db := openTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	gid, uid := id.NewID32(), id.NewID32()
	seedContribution(t, repo, gid, uid, 6, 2026, contribDomain.StatusCompleted)
	seedContribution(t, repo, gid, uid, 7, 2026, contribDomain.StatusPending)

	ok, err := repo.HasCompletedForPeriod(ctx, gid, uid, 6, 2026)
	if err != nil || !ok {
		t.Fatalf("paid period: ok=%v err=%v", ok, err)
	}
	ok, err = repo.HasCompletedForPeriod(ctx, gid, uid, 7, 2026)
	if err != nil || ok {
		t.Fatalf("pending must not count: ok=%v err=%v", ok, err)
	}
}

func TestContributionRepository_SaveTransitions(t *testing.T) {
	db := openTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	gid, uid := id.NewID32(), id.NewID32()
	c := &contribDomain.Contribution{
		ContributionID: id.NewID32(),
		GroupID:        gid, UserID: uid,
		Amount: dec(t, "10000"), Month: 6, Year: 2026,
		Status: contribDomain.StatusPending,
	}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := c.Transition(contribDomain.StatusCompleted); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.GetByContributionID(ctx, c.ContributionID)
	if err != nil {
		t.Fatalf("GetByContributionID: %v", err)
	}
	if got.Status != contribDomain.StatusCompleted {
		t.Fatalf("status=%s", got.Status)
	}
}

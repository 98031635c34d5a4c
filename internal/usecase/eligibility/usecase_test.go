package eligibility

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	contribdomain "chama-backend/internal/domain/contribution"
	"chama-backend/internal/domain/fault"
	grp "chama-backend/internal/domain/group"
	loandomain "chama-backend/internal/domain/loan"
	"chama-backend/internal/testutil/groupmock"
	"chama-backend/internal/testutil/loanmock"
	contribuc "chama-backend/internal/usecase/contribution"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

const (
	gid = "11111111111111111111111111111111"
	uid = "22222222222222222222222222222222"
)

type stubAggregator struct {
	sum *contribuc.Summary
	err error
}

func (s *stubAggregator) SummarizeCompleted(ctx context.Context, groupID, userID string, period *contribdomain.Period) (*contribuc.Summary, error) {
	return s.sum, s.err
}

func groupsWithPolicy(multiplier string, minMonths int) *groupmock.Repo {
	return &groupmock.Repo{
		GetByGroupIDFn: func(ctx context.Context, groupID string) (*grp.Group, error) {
			return &grp.Group{
				GroupID:             groupID,
				MonthlyContribution: dec("10000"),
				MaxLoanMultiplier:   dec(multiplier),
				MinContribMonths:    minMonths,
			}, nil
		},
		GetMemberFn: func(ctx context.Context, groupID, userID string) (*grp.Member, error) {
			return &grp.Member{GroupID: groupID, UserID: userID, Status: grp.MemberActive}, nil
		},
	}
}

func noOpenLoan() *loanmock.Repo {
	return &loanmock.Repo{
		GetOpenLoanFn: func(ctx context.Context, groupID, userID string) (*loandomain.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func TestCompute_EligibleMember(t *testing.T) {
	// 4 completed contributions of 10000 each, 3x multiplier, no open loan.
	u := NewUsecase(groupsWithPolicy("3", 3), noOpenLoan(),
		&stubAggregator{sum: &contribuc.Summary{Count: 4, Total: dec("40000")}}, 3)

	res, err := u.Compute(context.Background(), gid, uid)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !res.Eligible {
		t.Fatal("expected eligible")
	}
	if !res.MaxLoanAmount.Equal(dec("120000")) {
		t.Fatalf("maxLoanAmount=%s want 120000", res.MaxLoanAmount)
	}
	if res.ContributionsCount != 4 || !res.TotalContributions.Equal(dec("40000")) {
		t.Fatalf("summary mismatch: %+v", res)
	}
	if res.HasActiveLoan {
		t.Fatal("hasActiveLoan should be false")
	}
}

func TestCompute_BelowFloorIsIneligible_RegardlessOfTotal(t *testing.T) {
	// Huge total but only 2 completed months.
	u := NewUsecase(groupsWithPolicy("3", 3), noOpenLoan(),
		&stubAggregator{sum: &contribuc.Summary{Count: 2, Total: dec("9000000")}}, 3)

	res, err := u.Compute(context.Background(), gid, uid)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Eligible {
		t.Fatal("count below floor must be ineligible")
	}
	// Derived amount is still reported for display.
	if !res.MaxLoanAmount.Equal(dec("27000000")) {
		t.Fatalf("maxLoanAmount=%s", res.MaxLoanAmount)
	}
}

func TestCompute_OpenLoanBlocks_RegardlessOfHistory(t *testing.T) {
	loans := &loanmock.Repo{
		GetOpenLoanFn: func(ctx context.Context, groupID, userID string) (*loandomain.Loan, error) {
			return &loandomain.Loan{LoanID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Status: loandomain.StatusActive}, nil
		},
	}
	u := NewUsecase(groupsWithPolicy("3", 3), loans,
		&stubAggregator{sum: &contribuc.Summary{Count: 24, Total: dec("240000")}}, 3)

	res, err := u.Compute(context.Background(), gid, uid)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Eligible {
		t.Fatal("open loan must block eligibility")
	}
	if !res.HasActiveLoan {
		t.Fatal("hasActiveLoan should be true")
	}
}

func TestCompute_ZeroContributions_NeverEligible(t *testing.T) {
	u := NewUsecase(groupsWithPolicy("100", 3), noOpenLoan(),
		&stubAggregator{sum: &contribuc.Summary{Count: 0, Total: decimal.Zero}}, 3)

	res, err := u.Compute(context.Background(), gid, uid)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Eligible {
		t.Fatal("zero contributions must be ineligible")
	}
	if !res.MaxLoanAmount.IsZero() {
		t.Fatalf("maxLoanAmount=%s want 0", res.MaxLoanAmount)
	}
}

func TestCompute_MissingGroupIsNotFound(t *testing.T) {
	groups := &groupmock.Repo{
		GetByGroupIDFn: func(ctx context.Context, groupID string) (*grp.Group, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	u := NewUsecase(groups, noOpenLoan(), &stubAggregator{}, 3)
	_, err := u.Compute(context.Background(), gid, uid)
	if !fault.IsKind(err, fault.KindNotFound) {
		t.Fatalf("want not_found, got %v", err)
	}
}

func TestCompute_MissingMemberIsNotFound(t *testing.T) {
	groups := groupsWithPolicy("3", 3)
	groups.GetMemberFn = func(ctx context.Context, groupID, userID string) (*grp.Member, error) {
		return nil, gorm.ErrRecordNotFound
	}
	u := NewUsecase(groups, noOpenLoan(), &stubAggregator{}, 3)
	_, err := u.Compute(context.Background(), gid, uid)
	if !fault.IsKind(err, fault.KindNotFound) {
		t.Fatalf("want not_found, got %v", err)
	}
}

func TestCompute_FloorFallsBackToDefault(t *testing.T) {
	// Group row predates the policy field; zero floor falls back to 3.
	u := NewUsecase(groupsWithPolicy("3", 0), noOpenLoan(),
		&stubAggregator{sum: &contribuc.Summary{Count: 2, Total: dec("20000")}}, 3)

	res, err := u.Compute(context.Background(), gid, uid)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Eligible {
		t.Fatal("2 < default floor of 3 must be ineligible")
	}
}

package uow

import (
	"context"

	"chama-backend/internal/domain/activity"
	"chama-backend/internal/domain/contribution"
	"chama-backend/internal/domain/group"
	"chama-backend/internal/domain/loan"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Groups        group.Repository
	Contributions contribution.Repository
	Loans         loan.Repository
	Activities    activity.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn atomically; any error rolls back every write.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row up-front, then runs fn with it.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}

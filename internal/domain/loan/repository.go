package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the enclosing transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// GetOpenLoan returns the member's most recent loan whose status still
	// blocks new borrowing (PENDING, APPROVED or ACTIVE).
	GetOpenLoan(ctx context.Context, groupID, userID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
}

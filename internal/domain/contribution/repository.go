package contribution

import "context"

type Repository interface {
	Create(ctx context.Context, c *Contribution) error
	GetByContributionID(ctx context.Context, contributionID string) (*Contribution, error)
	Save(ctx context.Context, c *Contribution) error
	// ListCompleted returns COMPLETED rows for a member, newest period first.
	// limit <= 0 means no cap; period may be nil.
	ListCompleted(ctx context.Context, groupID, userID string, period *Period, limit int) ([]Contribution, error)
	// HasCompletedForPeriod answers the sweep's "did they pay this month" question.
	HasCompletedForPeriod(ctx context.Context, groupID, userID string, month, year int) (bool, error)
}

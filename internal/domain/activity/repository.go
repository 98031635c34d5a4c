package activity

import "context"

type Repository interface {
	Append(ctx context.Context, a *Activity) error
	ListByGroup(ctx context.Context, groupID string, limit int) ([]Activity, error)
}

package teamassignment

import "context"

type Repository interface {
	GetCurrent(ctx context.Context, gameID string) (Assignment, bool, error)
	Replace(ctx context.Context, item Assignment) error
}

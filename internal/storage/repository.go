package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	AppendActivity(ctx context.Context, in Activity) (int64, error)
	GetActivity(ctx context.Context, id int64) (Activity, error)
	ListActivity(ctx context.Context, filter ActivityListFilter) ([]Activity, error)
	CountActivity(ctx context.Context) (int, error)
	PruneActivity(ctx context.Context, keep int) (int64, error)
	Close() error
}

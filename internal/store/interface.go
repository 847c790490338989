package store

import (
	"context"
	"errors"

	"blogd/internal/model"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("post not found")
)

type Store interface {
	Create(ctx context.Context, post *model.Post) error
	Get(ctx context.Context, id uuid.UUID) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	DropAll(ctx context.Context) error
	PushImport(ctx context.Context, url string) error
	PopImport(ctx context.Context) (string, error)
}

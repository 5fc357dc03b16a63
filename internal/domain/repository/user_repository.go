package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ugram-app/backend/internal/domain/entity"
)

// UserRepository is the persistence port for the User aggregate.
//
// Lookups return (nil, nil) when no row matches; the service layer decides
// whether that is an error. Save inserts a new user and Update rewrites an
// existing one, failing when the id is absent. Both must surface unique
// constraint violations so callers can report the conflict even when two
// writers race past the service-level uniqueness check.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	// ListAll returns a page ordered by username ascending, ties broken by id
	// so the order is stable across calls.
	ListAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Count(ctx context.Context) (int, error)
}

package repository

import (
	"context"

	"fitfinder-backend/internal/domain/place"
	"fitfinder-backend/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type PlaceRepository interface {
	// FindByPlacesIDs returns the cached rows for ids, keyed by places_id.
	FindByPlacesIDs(ctx context.Context, ids []string) (map[string]place.Place, error)
	// InsertDefaults creates rows with the default flag for ids; ids that
	// already exist are left untouched.
	InsertDefaults(ctx context.Context, ids []string) error
	UpsertWalkIn(ctx context.Context, placesID string, walkIn bool) (place.Place, error)
	// InTx runs fn against a repository bound to a single transaction.
	InTx(ctx context.Context, fn func(PlaceRepository) error) error
}

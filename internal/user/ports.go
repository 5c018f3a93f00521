package user

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=user

type Repository interface {
	// Create inserts u and fills in its ID. A taken username or email yields
	// ErrAlreadyExists.
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

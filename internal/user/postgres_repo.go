package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/platform/postgres"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (username, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, query, u.Username, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, "users_") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	const query = `
	SELECT id, username, email, password_hash, created_at
	FROM users
	WHERE username = $1
	LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u User
	err := r.db.QueryRow(timeoutCtx, query, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}

func (r *PostgresRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

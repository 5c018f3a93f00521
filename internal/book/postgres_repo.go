package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/platform/postgres"
)

const bookColumns = `id, title, author, isbn, published_date, created_at, updated_at`

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

func scanBook(row pgx.Row, b *Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublishedDate, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) List(ctx context.Context, search string) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	var args []any

	if term := strings.TrimSpace(search); term != "" {
		query += ` WHERE title ILIKE $1 OR author ILIKE $1`
		args = append(args, containsPattern(term))
	}
	query += ` ORDER BY id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := scanBook(rows, &b); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b Book
	if err := scanBook(r.db.QueryRow(timeoutCtx, query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, author, isbn, published_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := scanBook(r.db.QueryRow(timeoutCtx, query, b.Title, b.Author, b.ISBN, b.PublishedDate), b)
	if err != nil {
		if postgres.IsUniqueViolation(err, "isbn") {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, b *Book) error {
	const query = `
		UPDATE books
		SET title = $1, author = $2, isbn = $3, published_date = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := scanBook(r.db.QueryRow(timeoutCtx, query, b.Title, b.Author, b.ISBN, b.PublishedDate, id), b)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case postgres.IsUniqueViolation(err, "isbn"):
			return ErrDuplicateISBN
		}
		return fmt.Errorf("update book %d: %w", id, err)
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete book %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepo) Exists(ctx context.Context, id int64) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check book %d: %w", id, err)
	}
	return exists, nil
}

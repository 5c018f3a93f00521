package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
//
// Expected outcomes are reported through ErrNotFound and ErrDuplicateISBN;
// any other error is a store failure.
type Repository interface {
	// List returns every book when search is blank, otherwise the books whose
	// title or author contains search, ignoring case. Ordered by id. Case
	// folding is the store's: Postgres folds all letters, SQLite only ASCII.
	List(ctx context.Context, search string) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	// Create inserts b and fills in its ID and timestamps.
	Create(ctx context.Context, b *Book) error
	// Update replaces title, author, isbn and published date of book id and
	// writes the stored row back into b.
	Update(ctx context.Context, id int64, b *Book) error
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

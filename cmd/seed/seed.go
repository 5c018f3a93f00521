package main

import (
	"context"
	"fmt"
	"time"

	"libraryapi/internal/book"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var referenceBooks = []book.Book{
	{Title: "Clean Code", Author: "Robert C. Martin", ISBN: "978-0132350884", PublishedDate: day(2008, time.August, 1)},
	{Title: "The Pragmatic Programmer", Author: "Andrew Hunt and David Thomas", ISBN: "978-0135957059", PublishedDate: day(2019, time.September, 13)},
	{Title: "Design Patterns", Author: "Gang of Four", ISBN: "978-0201633610", PublishedDate: day(1994, time.October, 31)},
	{Title: "C# in Depth", Author: "Jon Skeet", ISBN: "978-1617294532", PublishedDate: day(2019, time.March, 15)},
	{Title: "Refactoring", Author: "Martin Fowler", ISBN: "978-0134757599", PublishedDate: day(2018, time.November, 20)},
}

// seedBooks inserts the reference books when the catalog is empty and
// returns how many were written.
func seedBooks(ctx context.Context, repo book.Repository) (int, error) {
	existing, err := repo.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i := range referenceBooks {
		b := referenceBooks[i]
		if err := repo.Create(ctx, &b); err != nil {
			return i, fmt.Errorf("insert %q: %w", b.Title, err)
		}
	}
	return len(referenceBooks), nil
}

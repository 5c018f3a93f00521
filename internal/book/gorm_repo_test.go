package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/platform/gormdb"
)

func newTestGormRepo(t *testing.T) *GormRepo {
	t.Helper()
	db, err := gormdb.OpenSQLite(":memory:", &Book{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })
	return NewGormRepo(db)
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func seed(t *testing.T, repo *GormRepo, books ...Book) []Book {
	t.Helper()
	out := make([]Book, 0, len(books))
	for _, b := range books {
		require.NoError(t, repo.Create(context.Background(), &b))
		out = append(out, b)
	}
	return out
}

func TestGormRepo_CreateAndGet(t *testing.T) {
	repo := newTestGormRepo(t)
	ctx := context.Background()

	b := Book{Title: "Clean Code", Author: "Robert C. Martin", ISBN: "9780132350884", PublishedDate: date(t, "2008-08-01")}
	require.NoError(t, repo.Create(ctx, &b))
	assert.NotZero(t, b.ID)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", got.Title)
	assert.Equal(t, "Robert C. Martin", got.Author)
	assert.Equal(t, "9780132350884", got.ISBN)
	assert.Equal(t, "2008-08-01", got.PublishedDate.Format(time.DateOnly))
}

func TestGormRepo_GetMissing(t *testing.T) {
	repo := newTestGormRepo(t)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormRepo_DuplicateISBN(t *testing.T) {
	repo := newTestGormRepo(t)
	ctx := context.Background()

	seed(t, repo, Book{Title: "First", Author: "A", ISBN: "123", PublishedDate: date(t, "2000-01-01")})

	dup := Book{Title: "Second", Author: "B", ISBN: "123", PublishedDate: date(t, "2001-01-01")}
	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, ErrDuplicateISBN)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "First", all[0].Title)
}

func TestGormRepo_List(t *testing.T) {
	repo := newTestGormRepo(t)
	ctx := context.Background()

	seed(t, repo,
		Book{Title: "Clean Code", Author: "Robert C. Martin", ISBN: "1", PublishedDate: date(t, "2008-08-01")},
		Book{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", ISBN: "2", PublishedDate: date(t, "1999-10-20")},
		Book{Title: "Refactoring", Author: "Martin Fowler", ISBN: "3", PublishedDate: date(t, "1999-07-08")},
		Book{Title: "100% Coverage", Author: "Some_One", ISBN: "4", PublishedDate: date(t, "2020-01-01")},
		Book{Title: "Élan Vital", Author: "Henri Bergson", ISBN: "5", PublishedDate: date(t, "1907-01-01")},
	)

	titles := func(books []Book) []string {
		out := make([]string, 0, len(books))
		for _, b := range books {
			out = append(out, b.Title)
		}
		return out
	}

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"blank returns all in id order", "", []string{"Clean Code", "The Pragmatic Programmer", "Refactoring", "100% Coverage", "Élan Vital"}},
		{"whitespace returns all", "   ", []string{"Clean Code", "The Pragmatic Programmer", "Refactoring", "100% Coverage", "Élan Vital"}},
		{"title case-insensitive", "clean", []string{"Clean Code"}},
		{"author match", "MARTIN", []string{"Clean Code", "Refactoring"}},
		{"no match", "golang", []string{}},
		{"non-ascii same case", "Élan", []string{"Élan Vital"}},
		{"percent literal", "%", []string{"100% Coverage"}},
		{"underscore literal", "_", []string{"100% Coverage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.search)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestGormRepo_Update(t *testing.T) {
	repo := newTestGormRepo(t)
	ctx := context.Background()

	stored := seed(t, repo,
		Book{Title: "Old", Author: "Old Author", ISBN: "111", PublishedDate: date(t, "2000-01-01")},
		Book{Title: "Other", Author: "Other Author", ISBN: "222", PublishedDate: date(t, "2001-01-01")},
	)

	t.Run("replaces all fields", func(t *testing.T) {
		b := Book{Title: "New", Author: "New Author", ISBN: "333", PublishedDate: date(t, "2010-05-05")}
		require.NoError(t, repo.Update(ctx, stored[0].ID, &b))
		assert.Equal(t, stored[0].ID, b.ID)

		got, err := repo.GetByID(ctx, stored[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
		assert.Equal(t, "New Author", got.Author)
		assert.Equal(t, "333", got.ISBN)
		assert.Equal(t, "2010-05-05", got.PublishedDate.Format(time.DateOnly))
	})

	t.Run("missing id changes nothing", func(t *testing.T) {
		b := Book{Title: "Ghost", Author: "Nobody", ISBN: "999", PublishedDate: date(t, "2010-05-05")}
		err := repo.Update(ctx, 12345, &b)
		assert.ErrorIs(t, err, ErrNotFound)

		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
		exists, err := repo.Exists(ctx, 12345)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("isbn taken by another book", func(t *testing.T) {
		b := Book{Title: "Other", Author: "Other Author", ISBN: "333", PublishedDate: date(t, "2001-01-01")}
		err := repo.Update(ctx, stored[1].ID, &b)
		assert.ErrorIs(t, err, ErrDuplicateISBN)

		got, err := repo.GetByID(ctx, stored[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "222", got.ISBN)
	})
}

func TestGormRepo_DeleteAndExists(t *testing.T) {
	repo := newTestGormRepo(t)
	ctx := context.Background()

	stored := seed(t, repo, Book{Title: "Gone", Author: "A", ISBN: "1", PublishedDate: date(t, "2000-01-01")})
	id := stored[0].ID

	exists, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	exists, err = repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

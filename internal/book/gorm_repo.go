package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// GormRepo stores books through GORM. It backs the sqlite store driver.
type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) List(ctx context.Context, search string) ([]Book, error) {
	query := r.db.WithContext(ctx).Order("id")

	if term := strings.TrimSpace(search); term != "" {
		pattern := asciiLower(containsPattern(term))
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	out := []Book{}
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return out, nil
}

func (r *GormRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	var b Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

func (r *GormRepo) Create(ctx context.Context, b *Book) error {
	b.ID = 0
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *GormRepo) Update(ctx context.Context, id int64, b *Book) error {
	res := r.db.WithContext(ctx).Model(&Book{}).Where("id = ?", id).Updates(map[string]any{
		"title":          b.Title,
		"author":         b.Author,
		"isbn":           b.ISBN,
		"published_date": b.PublishedDate,
		"updated_at":     time.Now(),
	})
	if err := res.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("update book %d: %w", id, err)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*b = stored
	return nil
}

func (r *GormRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Book{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete book %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Book{}).Where("id = ?", id).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check book %d: %w", id, err)
	}
	return n > 0, nil
}

// asciiLower folds only A-Z, matching SQLite's LOWER so both sides of the
// LIKE are folded alike.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

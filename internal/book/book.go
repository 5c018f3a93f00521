package book

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when another book already uses the ISBN.
	ErrDuplicateISBN = errors.New("isbn already exists")
	// ErrInvalidDate is returned when a published date cannot be parsed.
	ErrInvalidDate = errors.New("invalid published date")
)

// Book is the catalog entity as stored.
type Book struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Author        string    `gorm:"type:varchar(100);not null"`
	ISBN          string    `gorm:"column:isbn;type:varchar(20);not null;uniqueIndex:books_isbn_key"`
	PublishedDate time.Time `gorm:"type:date;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Book) TableName() string { return "books" }

// View is the transport representation of a Book.
type View struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	PublishedDate string `json:"published_date"`
}

// Input carries the client-supplied fields for create and update.
type Input struct {
	Title         string `json:"title" validate:"required,notblank,max=200"`
	Author        string `json:"author" validate:"required,notblank,max=100"`
	ISBN          string `json:"isbn" validate:"required,notblank,max=20"`
	PublishedDate string `json:"published_date" validate:"required,date"`
}

// ToView copies b field for field.
func ToView(b Book) View {
	return View{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate.Format(time.DateOnly),
	}
}

func (in Input) toBook() (Book, error) {
	published, err := ParseDate(in.PublishedDate)
	if err != nil {
		return Book{}, err
	}
	return Book{
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		ISBN:          strings.TrimSpace(in.ISBN),
		PublishedDate: published,
	}, nil
}

// ParseDate reads a calendar date (2006-01-02) or an RFC 3339 timestamp and
// returns midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term anywhere, with LIKE
// wildcards in term taken literally. Callers use ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

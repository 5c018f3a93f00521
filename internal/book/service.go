package book

import (
	"context"
)

// Service maps between the transport View/Input and stored books.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all books, or those whose title or author contains search.
func (s *Service) List(ctx context.Context, search string) ([]View, error) {
	books, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(books))
	for _, b := range books {
		views = append(views, ToView(b))
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	return ToView(b), nil
}

func (s *Service) Create(ctx context.Context, in Input) (View, error) {
	b, err := in.toBook()
	if err != nil {
		return View{}, err
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return View{}, err
	}
	return ToView(b), nil
}

// Update replaces every field of book id. An absent id yields ErrNotFound
// and nothing is written.
func (s *Service) Update(ctx context.Context, id int64, in Input) (View, error) {
	b, err := in.toBook()
	if err != nil {
		return View{}, err
	}
	if err := s.repo.Update(ctx, id, &b); err != nil {
		return View{}, err
	}
	b.ID = id
	return ToView(b), nil
}

// Delete reports whether a book was removed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

package catalog

import (
	"context"
)

// Service provides catalog business logic.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns a book by its ID.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByISBN returns a book by its ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// List returns a page of books and the total catalog size.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Book, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// AddOrRestock adds one copy for the ISBN in md. An unknown ISBN creates a
// new entry with one copy; a known ISBN gains one total and one available
// copy while keeping its first-seen metadata untouched.
func (s *Service) AddOrRestock(ctx context.Context, md Metadata) (Book, error) {
	return s.repo.AddOrRestock(ctx, md)
}

package member

import (
	"context"
)

// Service provides membership business logic.
type Service struct {
	repo Repository
}

// NewService creates a new member service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a member. New members start Active with the Standard
// membership type unless the caller says otherwise.
func (s *Service) Register(ctx context.Context, m Member) (Member, error) {
	if m.MembershipType == "" {
		m.MembershipType = "Standard"
	}
	if m.Status == "" {
		m.Status = StatusActive
	}
	return s.repo.Create(ctx, &m)
}

// GetByID returns a member by their ID.
func (s *Service) GetByID(ctx context.Context, id int64) (Member, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of members and the total member count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Member, int, error) {
	return s.repo.List(ctx, limit, offset)
}

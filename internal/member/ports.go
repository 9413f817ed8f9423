package member

import (
	"context"
)

// Repository defines the contract for member data storage.
type Repository interface {
	Create(ctx context.Context, m *Member) (Member, error)
	GetByID(ctx context.Context, id int64) (Member, error)
	List(ctx context.Context, limit, offset int) ([]Member, int, error)
	Count(ctx context.Context) (int, error)
}

package catalog

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	List(ctx context.Context, limit, offset int) ([]Book, int, error)
	AddOrRestock(ctx context.Context, md Metadata) (Book, error)
	Count(ctx context.Context) (int, error)
}

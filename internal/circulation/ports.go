package circulation

import (
	"context"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/member"
)

// Ledger defines the contract for transaction storage. CreateIssued and
// Close are single atomic units: the copy-count change and the ledger write
// commit together or not at all.
type Ledger interface {
	GetByID(ctx context.Context, id int64) (Transaction, error)

	// CreateIssued decrements the book's available copies and records the
	// loan. Returns ErrOutOfStock when no copy is available, including when
	// another issue won a race for the last one.
	CreateIssued(ctx context.Context, memberID, bookID int64, issueDate, dueDate time.Time) (Transaction, error)

	// Close marks the loan Returned with the given return date and fine,
	// and puts the copy back on the shelf. A book row that no longer exists
	// skips the copy increment without failing. Returns ErrAlreadyReturned
	// when the loan is not open, including when a concurrent return won.
	Close(ctx context.Context, id int64, returnDate time.Time, fine float64) error

	ListOverdue(ctx context.Context, asOf time.Time) ([]OverdueRow, error)
	ListDueOn(ctx context.Context, due time.Time) ([]DueSoonRow, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

// BookStore is the slice of the catalog the engine reads.
type BookStore interface {
	GetByID(ctx context.Context, id int64) (catalog.Book, error)
	Count(ctx context.Context) (int, error)
}

// MemberStore is the slice of the membership store the engine reads.
type MemberStore interface {
	GetByID(ctx context.Context, id int64) (member.Member, error)
	Count(ctx context.Context) (int, error)
}

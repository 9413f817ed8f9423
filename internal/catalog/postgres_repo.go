package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, isbn, title, author, publisher, publication_year, category,
	       description, cover_image_url, total_copies, available_copies, shelf_location,
	       created_at, updated_at`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.PublicationYear, &b.Category,
		&b.Description, &b.CoverImageURL, &b.TotalCopies, &b.AvailableCopies, &b.ShelfLocation,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE isbn = $1
		LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, isbn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Book, int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		return nil, 0, err
	}

	const dataSQL = `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY title ASC, id ASC
		LIMIT $1 OFFSET $2`

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// AddOrRestock inserts a new catalog entry with one copy, or adds one copy
// to the existing entry for the same ISBN. The conflict branch touches only
// the counters, so metadata recorded at first sight is never overwritten.
func (r *PostgresRepo) AddOrRestock(ctx context.Context, md Metadata) (Book, error) {
	const query = `
		INSERT INTO books (isbn, title, author, publisher, publication_year, category,
		                   description, cover_image_url, total_copies, available_copies,
		                   shelf_location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, 1, $9, NOW(), NOW())
		ON CONFLICT (isbn) DO UPDATE SET
			total_copies = books.total_copies + 1,
			available_copies = books.available_copies + 1,
			updated_at = NOW()
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanBook(r.db.QueryRow(timeoutCtx, query,
		md.ISBN, md.Title, md.Author, md.Publisher, md.PublicationYear, md.Category,
		md.Description, md.CoverImageURL, md.ShelfLocation,
	))
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books").Scan(&total)
	return total, err
}

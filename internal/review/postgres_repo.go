package review

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func (r *PostgresRepo) Create(ctx context.Context, rv *Review) (Review, error) {
	const query = `
		INSERT INTO book_reviews (book_id, member_id, rating, review_text, review_date)
		VALUES ($1, $2, $3, $4, CURRENT_DATE)
		RETURNING id, book_id, member_id, rating, review_text, review_date`

	var created Review
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, rv.BookID, rv.MemberID, rv.Rating, rv.ReviewText).Scan(
		&created.ID, &created.BookID, &created.MemberID, &created.Rating, &created.ReviewText, &created.ReviewDate,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Review{}, ErrUnknownReference
		}
		return Review{}, err
	}
	return created, nil
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]Review, int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM book_reviews WHERE book_id = $1", bookID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const dataSQL = `
		SELECT id, book_id, member_id, rating, review_text, review_date
		FROM book_reviews
		WHERE book_id = $1
		ORDER BY review_date DESC, id DESC
		LIMIT $2 OFFSET $3`

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, bookID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.BookID, &rv.MemberID, &rv.Rating, &rv.ReviewText, &rv.ReviewDate); err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

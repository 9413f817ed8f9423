package circulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
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

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Transaction, error) {
	const query = `
		SELECT id, member_id, COALESCE(book_id, 0), issue_date, due_date, return_date, fine_amount, status
		FROM transactions
		WHERE id = $1`

	var t Transaction
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&t.ID, &t.MemberID, &t.BookID, &t.IssueDate, &t.DueDate, &t.ReturnDate, &t.FineAmount, &t.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrTransactionNotFound
		}
		return Transaction{}, err
	}
	return t, nil
}

// CreateIssued takes one copy off the shelf and writes the loan row in a
// single database transaction. The guarded UPDATE serializes issues against
// each other: whoever takes the last copy wins, everyone else gets
// ErrOutOfStock.
func (r *PostgresRepo) CreateIssued(ctx context.Context, memberID, bookID int64, issueDate, dueDate time.Time) (Transaction, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(timeoutCtx)

	const decrementSQL = `
		UPDATE books
		SET available_copies = available_copies - 1, updated_at = NOW()
		WHERE id = $1 AND available_copies > 0`

	tag, err := tx.Exec(timeoutCtx, decrementSQL, bookID)
	if err != nil {
		return Transaction{}, fmt.Errorf("decrement available copies: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Transaction{}, ErrOutOfStock
	}

	const insertSQL = `
		INSERT INTO transactions (member_id, book_id, issue_date, due_date, status)
		VALUES ($1, $2, $3, $4, 'Issued')
		RETURNING id, member_id, book_id, issue_date, due_date, return_date, fine_amount, status`

	var t Transaction
	err = tx.QueryRow(timeoutCtx, insertSQL, memberID, bookID, issueDate, dueDate).Scan(
		&t.ID, &t.MemberID, &t.BookID, &t.IssueDate, &t.DueDate, &t.ReturnDate, &t.FineAmount, &t.Status,
	)
	if err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// Close settles the loan and restocks the copy in a single database
// transaction. The status guard makes a second return a no-op failure, and
// the shelf update silently affects zero rows when the book was deleted.
func (r *PostgresRepo) Close(ctx context.Context, id int64, returnDate time.Time, fine float64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	const closeSQL = `
		UPDATE transactions
		SET return_date = $2, fine_amount = $3, status = 'Returned'
		WHERE id = $1 AND status = 'Issued'`

	tag, err := tx.Exec(timeoutCtx, closeSQL, id, returnDate, fine)
	if err != nil {
		return fmt.Errorf("close transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyReturned
	}

	const restockSQL = `
		UPDATE books
		SET available_copies = available_copies + 1, updated_at = NOW()
		WHERE id = (SELECT book_id FROM transactions WHERE id = $1)`

	if _, err := tx.Exec(timeoutCtx, restockSQL, id); err != nil {
		return fmt.Errorf("restock copy: %w", err)
	}

	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]OverdueRow, error) {
	const query = `
		SELECT t.id, COALESCE(b.title, ''), m.first_name || ' ' || m.last_name,
		       t.due_date, m.first_name, COALESCE(m.email, ''), m.phone
		FROM transactions t
		LEFT JOIN books b ON b.id = t.book_id
		JOIN members m ON m.id = t.member_id
		WHERE t.status = 'Issued' AND t.due_date < $1
		ORDER BY t.id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverdueRow
	for rows.Next() {
		var row OverdueRow
		if err := rows.Scan(
			&row.TransactionID, &row.BookTitle, &row.MemberName,
			&row.DueDate, &row.MemberFirstName, &row.MemberEmail, &row.MemberPhone,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListDueOn(ctx context.Context, due time.Time) ([]DueSoonRow, error) {
	const query = `
		SELECT t.id, COALESCE(b.title, ''), t.due_date,
		       m.first_name, COALESCE(m.email, ''), m.phone
		FROM transactions t
		LEFT JOIN books b ON b.id = t.book_id
		JOIN members m ON m.id = t.member_id
		WHERE t.status = 'Issued' AND t.due_date = $1
		ORDER BY t.id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, due)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DueSoonRow
	for rows.Next() {
		var row DueSoonRow
		if err := rows.Scan(
			&row.TransactionID, &row.BookTitle, &row.DueDate,
			&row.MemberFirstName, &row.MemberEmail, &row.MemberPhone,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CountByStatus(ctx context.Context, status Status) (int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM transactions WHERE status = $1", string(status)).Scan(&total)
	return total, err
}

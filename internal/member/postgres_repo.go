package member

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `id, membership_number, first_name, last_name, COALESCE(email, ''), phone,
	       join_date, membership_type, status`

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

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(
		&m.ID, &m.MembershipNumber, &m.FirstName, &m.LastName, &m.Email, &m.Phone,
		&m.JoinDate, &m.MembershipType, &m.Status,
	)
	return m, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepo) Create(ctx context.Context, m *Member) (Member, error) {
	const query = `
		INSERT INTO members (membership_number, first_name, last_name, email, phone,
		                     join_date, membership_type, status)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, CURRENT_DATE, $6, $7)
		RETURNING ` + memberColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	created, err := scanMember(r.db.QueryRow(timeoutCtx, query,
		m.MembershipNumber, m.FirstName, m.LastName, m.Email, m.Phone,
		m.MembershipType, m.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Member{}, ErrDuplicate
		}
		return Member{}, err
	}
	return created, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Member, error) {
	const query = `
		SELECT ` + memberColumns + `
		FROM members
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	m, err := scanMember(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Member, int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM members").Scan(&total); err != nil {
		return nil, 0, err
	}

	const dataSQL = `
		SELECT ` + memberColumns + `
		FROM members
		ORDER BY last_name ASC, first_name ASC, id ASC
		LIMIT $1 OFFSET $2`

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM members").Scan(&total)
	return total, err
}

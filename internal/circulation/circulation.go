package circulation

import (
	"errors"
	"time"
)

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrOutOfStock          = errors.New("book out of stock")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyReturned     = errors.New("book already returned")
)

const (
	// DefaultLoanDays is the loan period applied when the caller does not
	// pick one.
	DefaultLoanDays = 14

	// DefaultFineRatePerDay is the per-day fine applied on late returns
	// when the caller does not pick a rate.
	DefaultFineRatePerDay = 0.50

	// reminderLeadDays is how far before the due date the upcoming-due
	// reminder pass looks.
	reminderLeadDays = 3

	// previewFineRatePerDay prices the fine estimate quoted in overdue
	// alert messages. It is display-only and independent of the rate used
	// when the book actually comes back.
	previewFineRatePerDay = 0.50
)

type Status string

const (
	StatusIssued   Status = "Issued"
	StatusReturned Status = "Returned"
)

// Transaction is one loan of one copy. It is created Issued and closed
// exactly once; "overdue" is never stored, it is derived from the due date
// at read time.
type Transaction struct {
	ID         int64      `json:"id"`
	MemberID   int64      `json:"member_id"`
	BookID     int64      `json:"book_id,omitempty"` // 0 when the book row was deleted
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	FineAmount float64    `json:"fine_amount"`
	Status     Status     `json:"status"`
}

// ReturnResult reports the outcome of closing a loan.
type ReturnResult struct {
	Transaction Transaction `json:"transaction"`
	OverdueDays int         `json:"overdue_days"`
	FineAmount  float64     `json:"fine_amount"`
}

// OverdueRow is one line of the overdue report. The contact fields ride
// along for the alert pass and stay out of the report payload.
type OverdueRow struct {
	TransactionID int64     `json:"transaction_id"`
	BookTitle     string    `json:"book_title"`
	MemberName    string    `json:"member_name"`
	DueDate       time.Time `json:"due_date"`
	OverdueDays   int       `json:"overdue_days"`

	MemberFirstName string `json:"-"`
	MemberEmail     string `json:"-"`
	MemberPhone     string `json:"-"`
}

// DueSoonRow is a loan whose due date is coming up, enriched with what the
// reminder messages need.
type DueSoonRow struct {
	TransactionID   int64
	BookTitle       string
	DueDate         time.Time
	MemberFirstName string
	MemberEmail     string
	MemberPhone     string
}

// DispatchSummary counts how many reminder and alert messages went out in
// one notification run.
type DispatchSummary struct {
	RemindersSent     int `json:"reminders_sent"`
	OverdueAlertsSent int `json:"overdue_alerts_sent"`
}

// Stats are the dashboard headline numbers.
type Stats struct {
	TotalBooks   int `json:"total_books"`
	TotalMembers int `json:"total_members"`
	BooksOnLoan  int `json:"books_on_loan"`
}

// dateOf truncates t to its calendar date, normalized to UTC so that
// day arithmetic is exact regardless of where t came from.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from one date to another.
// Negative when to precedes from.
func daysBetween(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from)).Hours() / 24)
}

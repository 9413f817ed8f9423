package circulation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/notify"
)

// Service is the circulation engine. It owns every write to the three
// stores; preconditions are checked here and the ledger makes each mutation
// atomic.
type Service struct {
	books   BookStore
	members MemberStore
	ledger  Ledger
	gateway notify.Gateway

	now func() time.Time
}

func NewService(books BookStore, members MemberStore, ledger Ledger, gateway notify.Gateway) *Service {
	return &Service{
		books:   books,
		members: members,
		ledger:  ledger,
		gateway: gateway,
		now:     time.Now,
	}
}

// IssueBook lends one copy of a book to a member. Preconditions fail in
// order: unknown book, unknown member, no available copy. On success the
// copy count decrement and the new Issued transaction commit as one unit.
func (s *Service) IssueBook(ctx context.Context, memberID, bookID int64, loanDays int) (Transaction, error) {
	if loanDays <= 0 {
		loanDays = DefaultLoanDays
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Transaction{}, ErrBookNotFound
		}
		return Transaction{}, err
	}

	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return Transaction{}, ErrMemberNotFound
		}
		return Transaction{}, err
	}

	if book.AvailableCopies <= 0 {
		return Transaction{}, ErrOutOfStock
	}

	today := dateOf(s.now())
	dueDate := today.AddDate(0, 0, loanDays)

	// The ledger re-checks availability under its own guard, so two issues
	// racing for the last copy cannot both get here and both succeed.
	return s.ledger.CreateIssued(ctx, memberID, bookID, today, dueDate)
}

// ReturnBook closes a loan, computing the fine from whole days past the due
// date. A loan already Returned fails without touching anything; a book row
// deleted since issue does not block the return.
func (s *Service) ReturnBook(ctx context.Context, transactionID int64, fineRatePerDay float64) (ReturnResult, error) {
	if fineRatePerDay < 0 {
		fineRatePerDay = DefaultFineRatePerDay
	}

	t, err := s.ledger.GetByID(ctx, transactionID)
	if err != nil {
		return ReturnResult{}, err
	}
	if t.Status == StatusReturned {
		return ReturnResult{}, ErrAlreadyReturned
	}

	today := dateOf(s.now())
	overdueDays := daysBetween(t.DueDate, today)
	if overdueDays < 0 {
		overdueDays = 0
	}
	fine := float64(overdueDays) * fineRatePerDay

	if err := s.ledger.Close(ctx, transactionID, today, fine); err != nil {
		return ReturnResult{}, err
	}

	t.ReturnDate = &today
	t.FineAmount = fine
	t.Status = StatusReturned

	return ReturnResult{
		Transaction: t,
		OverdueDays: overdueDays,
		FineAmount:  fine,
	}, nil
}

// OverdueReport lists every open loan past its due date as of now, ordered
// by transaction ID. The report is recomputed on every call.
func (s *Service) OverdueReport(ctx context.Context) ([]OverdueRow, error) {
	today := dateOf(s.now())

	rows, err := s.ledger.ListOverdue(ctx, today)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].OverdueDays = daysBetween(rows[i].DueDate, today)
	}
	if rows == nil {
		rows = []OverdueRow{}
	}
	return rows, nil
}

// DispatchDueDateNotifications runs two passes: reminders for loans due in
// exactly three days, then alerts for everything overdue. Each recipient is
// handled in isolation; a gateway failure only means that message is not
// counted. Only the address-message result drives the counters.
func (s *Service) DispatchDueDateNotifications(ctx context.Context) (DispatchSummary, error) {
	var summary DispatchSummary
	today := dateOf(s.now())

	dueSoon, err := s.ledger.ListDueOn(ctx, today.AddDate(0, 0, reminderLeadDays))
	if err != nil {
		return summary, err
	}

	for _, row := range dueSoon {
		sms := fmt.Sprintf("REMINDER: '%s' due %s. Return to avoid fines.",
			row.BookTitle, row.DueDate.Format("01/02"))
		if err := s.gateway.SendPhoneMessage(ctx, row.MemberPhone, sms); err != nil {
			log.Printf("reminder sms failed transaction=%d: %v", row.TransactionID, err)
		}

		subject := fmt.Sprintf("Reminder: your book '%s' is due soon!", row.BookTitle)
		body := fmt.Sprintf(
			"Dear %s,\n\nThis is a reminder that the book '%s' is due on %s. Please return it to avoid fines.\n\nThank you,\nThe Library",
			row.MemberFirstName, row.BookTitle, row.DueDate.Format("2006-01-02"))
		if err := s.gateway.SendAddressMessage(ctx, row.MemberEmail, subject, body); err != nil {
			log.Printf("reminder mail failed transaction=%d: %v", row.TransactionID, err)
		} else {
			summary.RemindersSent++
		}
	}

	overdue, err := s.OverdueReport(ctx)
	if err != nil {
		return summary, err
	}

	for _, row := range overdue {
		finePreview := float64(row.OverdueDays) * previewFineRatePerDay

		sms := fmt.Sprintf("OVERDUE: '%s' is %d days overdue. Fine assessed.",
			row.BookTitle, row.OverdueDays)
		if err := s.gateway.SendPhoneMessage(ctx, row.MemberPhone, sms); err != nil {
			log.Printf("overdue sms failed transaction=%d: %v", row.TransactionID, err)
		}

		subject := fmt.Sprintf("URGENT: your book '%s' is overdue!", row.BookTitle)
		body := fmt.Sprintf(
			"Dear %s,\n\nThe book '%s' was due on %s and is now %d days overdue. Please return it immediately. A fine of $%.2f has been assessed.\n\nThe Library",
			row.MemberFirstName, row.BookTitle, row.DueDate.Format("2006-01-02"), row.OverdueDays, finePreview)
		if err := s.gateway.SendAddressMessage(ctx, row.MemberEmail, subject, body); err != nil {
			log.Printf("overdue mail failed transaction=%d: %v", row.TransactionID, err)
		} else {
			summary.OverdueAlertsSent++
		}
	}

	return summary, nil
}

// DashboardStats returns the headline counts shown on the dashboard.
func (s *Service) DashboardStats(ctx context.Context) (Stats, error) {
	totalBooks, err := s.books.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	totalMembers, err := s.members.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	onLoan, err := s.ledger.CountByStatus(ctx, StatusIssued)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalBooks:   totalBooks,
		TotalMembers: totalMembers,
		BooksOnLoan:  onLoan,
	}, nil
}

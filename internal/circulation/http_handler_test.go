package circulation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"libraryapi/internal/catalog"
	"libraryapi/internal/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestHandler() (*HTTPHandler, testDeps) {
	s, deps := newTestService()
	return NewHTTPHandler(s), deps
}

func TestHTTPHandler_Issue(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, deps := newTestHandler()

		deps.books.On("GetByID", mock.Anything, int64(7)).
			Return(catalog.Book{ID: 7, AvailableCopies: 1}, nil)
		deps.members.On("GetByID", mock.Anything, int64(1)).
			Return(member.Member{ID: 1}, nil)
		deps.ledger.On("CreateIssued", mock.Anything, int64(1), int64(7), mock.Anything, mock.Anything).
			Return(Transaction{ID: 100, Status: StatusIssued}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/loans", strings.NewReader(`{"member_id":1,"book_id":7}`))

		h.Issue(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("book not found", func(t *testing.T) {
		h, deps := newTestHandler()

		deps.books.On("GetByID", mock.Anything, int64(99)).
			Return(catalog.Book{}, catalog.ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/loans", strings.NewReader(`{"member_id":1,"book_id":99}`))

		h.Issue(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("out of stock", func(t *testing.T) {
		h, deps := newTestHandler()

		deps.books.On("GetByID", mock.Anything, int64(7)).
			Return(catalog.Book{ID: 7, AvailableCopies: 0}, nil)
		deps.members.On("GetByID", mock.Anything, int64(1)).
			Return(member.Member{ID: 1}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/loans", strings.NewReader(`{"member_id":1,"book_id":7}`))

		h.Issue(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "OUT_OF_STOCK")
	})

	t.Run("missing ids rejected", func(t *testing.T) {
		h, _ := newTestHandler()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/loans", strings.NewReader(`{"loan_days":7}`))

		h.Issue(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("invalid json rejected", func(t *testing.T) {
		h, _ := newTestHandler()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/loans", strings.NewReader(`{`))

		h.Issue(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Return(t *testing.T) {
	t.Run("ok with empty body uses default rate", func(t *testing.T) {
		h, deps := newTestHandler()

		open := Transaction{ID: 100, DueDate: testToday.AddDate(0, 0, -4), Status: StatusIssued}
		deps.ledger.On("GetByID", mock.Anything, int64(100)).Return(open, nil)
		deps.ledger.On("Close", mock.Anything, int64(100), mock.Anything, 2.0).Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/loans/100/return", nil)
		r.SetPathValue("id", "100")

		h.Return(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"overdue_days":4`)
		deps.ledger.AssertExpectations(t)
	})

	t.Run("non-numeric id rejected", func(t *testing.T) {
		h, _ := newTestHandler()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/loans/abc/return", nil)
		r.SetPathValue("id", "abc")

		h.Return(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		h, deps := newTestHandler()

		deps.ledger.On("GetByID", mock.Anything, int64(999)).Return(Transaction{}, ErrTransactionNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/loans/999/return", nil)
		r.SetPathValue("id", "999")

		h.Return(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("already returned", func(t *testing.T) {
		h, deps := newTestHandler()

		returned := testToday
		closed := Transaction{ID: 100, DueDate: testToday, ReturnDate: &returned, Status: StatusReturned}
		deps.ledger.On("GetByID", mock.Anything, int64(100)).Return(closed, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/v1/loans/100/return", nil)
		r.SetPathValue("id", "100")

		h.Return(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ALREADY_RETURNED")
	})
}

func TestHTTPHandler_Overdue(t *testing.T) {
	h, deps := newTestHandler()

	deps.ledger.On("ListOverdue", mock.Anything, mock.Anything).Return([]OverdueRow{
		{TransactionID: 100, BookTitle: "Dune", MemberName: "Alice Smith", DueDate: testToday.AddDate(0, 0, -5)},
	}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/loans/overdue", nil)

	h.Overdue(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"overdue_days":5`)
	assert.Contains(t, w.Body.String(), "Alice Smith")
}

func TestHTTPHandler_DispatchNotifications(t *testing.T) {
	h, deps := newTestHandler()

	dueIn3 := testToday.AddDate(0, 0, 3)
	deps.ledger.On("ListDueOn", mock.Anything, dueIn3).Return([]DueSoonRow{
		{TransactionID: 1, BookTitle: "Dune", DueDate: dueIn3, MemberFirstName: "Alice", MemberEmail: "alice@example.com", MemberPhone: "555-1234"},
	}, nil)
	deps.ledger.On("ListOverdue", mock.Anything, mock.Anything).Return([]OverdueRow{}, nil)
	deps.gateway.On("SendPhoneMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	deps.gateway.On("SendAddressMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/loans/notifications/dispatch", nil)

	h.DispatchNotifications(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reminders_sent":1`)
	assert.Contains(t, w.Body.String(), `"overdue_alerts_sent":0`)
}

func TestHTTPHandler_DashboardStats(t *testing.T) {
	h, deps := newTestHandler()

	deps.books.On("Count", mock.Anything).Return(12, nil)
	deps.members.On("Count", mock.Anything).Return(3, nil)
	deps.ledger.On("CountByStatus", mock.Anything, StatusIssued).Return(2, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/dashboard/stats", nil)

	h.DashboardStats(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"books_on_loan":2`)
}

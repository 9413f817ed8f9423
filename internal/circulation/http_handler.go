package circulation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type issueRequest struct {
	MemberID int64 `json:"member_id" validate:"required,gt=0"`
	BookID   int64 `json:"book_id" validate:"required,gt=0"`
	LoanDays int   `json:"loan_days" validate:"omitempty,gte=1,lte=365"`
}

// Issue handles POST /v1/loans
func (h *HTTPHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid loan request", details)
		return
	}

	t, err := h.svc.IssueBook(r.Context(), req.MemberID, req.BookID, req.LoanDays)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case errors.Is(err, ErrMemberNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Member not found", nil)
		case errors.Is(err, ErrOutOfStock):
			httpx.JSONError(w, r, http.StatusConflict, "OUT_OF_STOCK", "No copies of this book are available", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccessCreated(w, r, t)
}

type returnRequest struct {
	FineRatePerDay *float64 `json:"fine_rate_per_day" validate:"omitempty,gte=0"`
}

// Return handles POST /v1/loans/{id}/return
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Transaction ID must be numeric", nil)
		return
	}

	var req returnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid return request", details)
		return
	}

	fineRate := DefaultFineRatePerDay
	if req.FineRatePerDay != nil {
		fineRate = *req.FineRatePerDay
	}

	result, err := h.svc.ReturnBook(r.Context(), id, fineRate)
	if err != nil {
		switch {
		case errors.Is(err, ErrTransactionNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Transaction not found", nil)
		case errors.Is(err, ErrAlreadyReturned):
			httpx.JSONError(w, r, http.StatusConflict, "ALREADY_RETURNED", "Book already returned", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccess(w, r, result, nil)
}

// Overdue handles GET /v1/loans/overdue
func (h *HTTPHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.OverdueReport(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, rows, map[string]interface{}{
		"total": len(rows),
	})
}

// DispatchNotifications handles POST /v1/loans/notifications/dispatch
func (h *HTTPHandler) DispatchNotifications(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.DispatchDueDateNotifications(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, summary, nil)
}

// DashboardStats handles GET /v1/dashboard/stats
func (h *HTTPHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.DashboardStats(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, stats, nil)
}

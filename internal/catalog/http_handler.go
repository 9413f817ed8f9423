package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/googlebooks"
)

// MetadataLookup is the external catalog-metadata collaborator. Lookups are
// driven by staff before a book enters the catalog; the circulation engine
// never calls it.
type MetadataLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*googlebooks.BookData, error)
}

type HTTPHandler struct {
	svc    *Service
	lookup MetadataLookup
}

func NewHTTPHandler(svc *Service, lookup MetadataLookup) *HTTPHandler {
	return &HTTPHandler{svc: svc, lookup: lookup}
}

// List handles GET /v1/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	books, total, err := h.svc.List(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]interface{}{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// GetByID handles GET /v1/books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Book ID must be numeric", nil)
		return
	}

	book, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, book, nil)
}

// Lookup handles GET /v1/catalog/lookup/{isbn}
func (h *HTTPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if isbn == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "ISBN is required", nil)
		return
	}

	data, err := h.lookup.LookupISBN(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, googlebooks.ErrNoMatch) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No book found for that ISBN", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadGateway, "DEPENDENCY_FAILURE", "Metadata lookup failed", nil)
		return
	}

	httpx.JSONSuccess(w, r, data, nil)
}

type addBookRequest struct {
	ISBN            string `json:"isbn" validate:"required,isbn"`
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year" validate:"gte=0"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	CoverImageURL   string `json:"cover_image_url"`
	ShelfLocation   string `json:"shelf_location"`
}

// AddOrRestock handles POST /v1/books
func (h *HTTPHandler) AddOrRestock(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book metadata", details)
		return
	}

	book, err := h.svc.AddOrRestock(r.Context(), Metadata{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Category:        req.Category,
		Description:     req.Description,
		CoverImageURL:   req.CoverImageURL,
		ShelfLocation:   req.ShelfLocation,
	})
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, book)
}

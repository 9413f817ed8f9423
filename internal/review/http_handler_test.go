package review

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libraryapi/internal/testutil"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, rv *Review) (Review, error) {
	args := m.Called(ctx, rv)
	return args.Get(0).(Review), args.Error(1)
}

func (m *mockRepository) ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]Review, int, error) {
	args := m.Called(ctx, bookID, limit, offset)
	var out []Review
	if args.Get(0) != nil {
		out = args.Get(0).([]Review)
	}
	return out, args.Int(1), args.Error(2)
}

func TestHTTPHandler_Add(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", mock.Anything, &Review{BookID: 1, MemberID: 2, Rating: 5, ReviewText: "Great read"}).
			Return(Review{ID: 10, BookID: 1, MemberID: 2, Rating: 5, ReviewText: "Great read", ReviewDate: time.Now()}, nil)
		handler := NewHTTPHandler(repo)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/v1/books/1/reviews",
			map[string]interface{}{"member_id": 2, "rating": 5, "review_text": "Great read"})
		r.SetPathValue("id", "1")

		handler.Add(w, r)

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, true, resp.Body["success"])
		repo.AssertExpectations(t)
	})

	t.Run("unknown book or member", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(Review{}, ErrUnknownReference)
		handler := NewHTTPHandler(repo)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/v1/books/99/reviews",
			map[string]interface{}{"member_id": 2, "rating": 4})
		r.SetPathValue("id", "99")

		handler.Add(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rating out of range", func(t *testing.T) {
		repo := new(mockRepository)
		handler := NewHTTPHandler(repo)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/v1/books/1/reviews",
			map[string]interface{}{"member_id": 2, "rating": 6})
		r.SetPathValue("id", "1")

		handler.Add(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("non-numeric book id", func(t *testing.T) {
		handler := NewHTTPHandler(new(mockRepository))

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/v1/books/abc/reviews",
			map[string]interface{}{"member_id": 2, "rating": 4})
		r.SetPathValue("id", "abc")

		handler.Add(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_ListByBook(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("ListByBook", mock.Anything, int64(1), 20, 0).Return([]Review{
			{ID: 10, BookID: 1, MemberID: 2, Rating: 5, ReviewDate: time.Now()},
		}, 1, nil)
		handler := NewHTTPHandler(repo)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodGet, "/v1/books/1/reviews", nil)
		r.SetPathValue("id", "1")

		handler.ListByBook(w, r)

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		meta := resp.Body["meta"].(map[string]interface{})
		assert.Equal(t, float64(1), meta["total"])
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("ListByBook", mock.Anything, int64(1), 20, 0).Return(nil, 0, errors.New("db error"))
		handler := NewHTTPHandler(repo)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodGet, "/v1/books/1/reviews", nil)
		r.SetPathValue("id", "1")

		handler.ListByBook(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

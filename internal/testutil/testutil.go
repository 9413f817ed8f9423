package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/member"
)

// TestBook is a mock catalog entry for testing
var TestBook = catalog.Book{
	ID:              1,
	ISBN:            "9780439420891",
	Title:           "Test Book Title",
	Author:          "Test Author",
	Publisher:       "Test Publisher",
	PublicationYear: 2001,
	Category:        "Fiction",
	TotalCopies:     3,
	AvailableCopies: 3,
	ShelfLocation:   "A-12",
	CreatedAt:       time.Now(),
	UpdatedAt:       time.Now(),
}

// TestMember is a mock member for testing
var TestMember = member.Member{
	ID:               1,
	MembershipNumber: "M001",
	FirstName:        "Alice",
	LastName:         "Smith",
	Email:            "alice@example.com",
	Phone:            "555-0101",
	JoinDate:         time.Now(),
	MembershipType:   "Standard",
	Status:           member.StatusActive,
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

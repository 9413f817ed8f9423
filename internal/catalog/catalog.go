package catalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book is a catalog entry plus its physical inventory counters.
// AvailableCopies never exceeds TotalCopies and never goes below zero;
// the circulation engine is the only writer of either counter.
type Book struct {
	ID              int64     `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author,omitempty"`
	Publisher       string    `json:"publisher,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	Category        string    `json:"category,omitempty"`
	Description     string    `json:"description,omitempty"`
	CoverImageURL   string    `json:"cover_image_url,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	ShelfLocation   string    `json:"shelf_location,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Metadata is a normalized record from an external lookup, already cleaned
// up by the caller. Adding it to the catalog either creates a new entry with
// a single copy or adds one copy to the existing entry for that ISBN.
type Metadata struct {
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	CoverImageURL   string `json:"cover_image_url"`
	ShelfLocation   string `json:"shelf_location"`
}

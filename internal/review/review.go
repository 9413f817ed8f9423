package review

import (
	"errors"
	"time"
)

// ErrUnknownReference is returned when a review points at a book or member
// that does not exist.
var ErrUnknownReference = errors.New("unknown book or member")

// Review is a member's rating of a book, 1 to 5 stars.
type Review struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"book_id"`
	MemberID   int64     `json:"member_id"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text,omitempty"`
	ReviewDate time.Time `json:"review_date"`
}

package member

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a member is not found.
var ErrNotFound = errors.New("member not found")

// ErrDuplicate is returned when a membership number or email collides with
// an existing member.
var ErrDuplicate = errors.New("membership number or email already registered")

const (
	StatusActive    = "Active"
	StatusSuspended = "Suspended"
)

// Member represents a registered library member. Circulation never mutates
// a member row; status transitions are an administrative concern.
type Member struct {
	ID               int64     `json:"id"`
	MembershipNumber string    `json:"membership_number"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	JoinDate         time.Time `json:"join_date"`
	MembershipType   string    `json:"membership_type"`
	Status           string    `json:"status"`
}

// FullName returns the display name used in reports and notifications.
func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// AngelaMos | 2026
// entity.go

package borrow

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusReturned Status = "returned"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusReturned},
}

// CanTransition reports whether from -> to is an edge of the request
// lifecycle. Rejected and returned are terminal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsDecision reports whether s is a status a librarian may decide on.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request is never deleted. BookTitle and UserName are filled by joined
// reads and are empty when the book has since been removed.
type Request struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	BookID    string    `db:"book_id"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	BookTitle string    `db:"book_title"`
	UserName  string    `db:"user_name"`
}

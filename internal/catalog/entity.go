// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"
)

// Book availability is a plain flag. Staff set it directly and the borrow
// workflow flips it on approve and return.
type Book struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Author       string    `db:"author"`
	ISBN         string    `db:"isbn"`
	Availability bool      `db:"availability"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// AngelaMos | 2026
// dto.go

package catalog

import (
	"time"
)

type CreateBookRequest struct {
	Title  string `json:"title"  validate:"required,max=255"`
	Author string `json:"author" validate:"max=255"`
	ISBN   string `json:"isbn"   validate:"required,max=32"`
}

// UpdateBookRequest is a full overwrite, so availability must be sent.
type UpdateBookRequest struct {
	Title        string `json:"title"        validate:"required,max=255"`
	Author       string `json:"author"       validate:"max=255"`
	ISBN         string `json:"isbn"         validate:"required,max=32"`
	Availability *bool  `json:"availability" validate:"required"`
}

type BookResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	ISBN         string    `json:"isbn"`
	Availability bool      `json:"availability"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ToBookResponse(b *Book) BookResponse {
	return BookResponse{
		ID:           b.ID,
		Title:        b.Title,
		Author:       b.Author,
		ISBN:         b.ISBN,
		Availability: b.Availability,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

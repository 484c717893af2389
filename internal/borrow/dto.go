// AngelaMos | 2026
// dto.go

package borrow

import (
	"time"
)

type CreateRequest struct {
	BookID string `json:"bookId" validate:"required,uuid"`
}

type DecideRequest struct {
	Status Status `json:"status" validate:"required,oneof=approved rejected"`
}

type RequestResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BookID    string    `json:"bookId"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	BookTitle string    `json:"bookTitle,omitempty"`
	UserName  string    `json:"userName,omitempty"`
}

type TransitionResponse struct {
	Message string          `json:"message"`
	Request RequestResponse `json:"request"`
}

func ToRequestResponse(r *Request) RequestResponse {
	return RequestResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		BookID:    r.BookID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		BookTitle: r.BookTitle,
		UserName:  r.UserName,
	}
}

func toRequestResponses(reqs []Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, ToRequestResponse(&reqs[i]))
	}
	return out
}

// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/librisys/backend/internal/core"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Book, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create adds a book. New books are always available.
func (s *Service) Create(
	ctx context.Context,
	req CreateBookRequest,
) (*Book, error) {
	now := s.now()

	book := &Book{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(req.Title),
		Author:       strings.TrimSpace(req.Author),
		ISBN:         strings.TrimSpace(req.ISBN),
		Availability: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "book created", "book_id", book.ID, "isbn", book.ISBN)
	return book, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateBookRequest,
) (*Book, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Title = strings.TrimSpace(req.Title)
	existing.Author = strings.TrimSpace(req.Author)
	existing.ISBN = strings.TrimSpace(req.ISBN)
	if req.Availability != nil {
		existing.Availability = *req.Availability
	}
	existing.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete does not look for borrow requests that still point at the book.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "book deleted", "book_id", id)
	return nil
}

func (s *Service) CountBooks(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func checkID(id string) error {
	if !core.IsCanonicalID(id) {
		return fmt.Errorf("parse book id %q: %w", id, core.ErrNotFound)
	}
	return nil
}

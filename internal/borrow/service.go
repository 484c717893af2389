// AngelaMos | 2026
// service.go

package borrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/librisys/backend/internal/core"
)

var (
	ErrDuplicatePending = errors.New("pending request already exists")
	ErrNotOwner         = errors.New("request belongs to another user")
	ErrInvalidDecision  = errors.New("status must be approved or rejected")
)

// BookAvailability is the slice of the catalog the workflow writes to.
type BookAvailability interface {
	SetAvailability(ctx context.Context, bookID string, available bool) error
}

type Service struct {
	repo  Repository
	tx    core.Transactor
	books func(core.DBTX) BookAvailability
	now   func() time.Time
}

// NewService wires the workflow. books binds the catalog to whichever
// handle a transition runs on so the status write and the availability
// write commit together.
func NewService(
	db core.DBTX,
	tx core.Transactor,
	books func(core.DBTX) BookAvailability,
) *Service {
	return &Service{
		repo:  NewRepository(db),
		tx:    tx,
		books: books,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create files a pending request. Book availability is not consulted; the
// only guard is one pending request per student and book.
func (s *Service) Create(
	ctx context.Context,
	studentID, bookID string,
) (*Request, error) {
	if !core.IsCanonicalID(bookID) {
		return nil, fmt.Errorf("parse book id %q: %w", bookID, core.ErrInvalidInput)
	}

	exists, err := s.repo.HasPending(ctx, studentID, bookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePending
	}

	now := s.now()
	req := &Request{
		ID:        uuid.New().String(),
		UserID:    studentID,
		BookID:    bookID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "borrow.created",
		attribute.String("borrow.id", req.ID),
		attribute.String("book.id", bookID),
	)
	slog.InfoContext(ctx, "borrow request created",
		"request_id", req.ID,
		"user_id", studentID,
		"book_id", bookID,
	)

	return s.repo.GetByID(ctx, req.ID)
}

func (s *Service) ListMine(
	ctx context.Context,
	studentID string,
) ([]Request, error) {
	return s.repo.ListByUser(ctx, studentID)
}

func (s *Service) ListAll(ctx context.Context) ([]Request, error) {
	return s.repo.ListAll(ctx)
}

// Decide approves or rejects a pending request. Approval marks the book
// unavailable in the same transaction; a book that no longer exists is
// skipped.
func (s *Service) Decide(
	ctx context.Context,
	requestID string,
	status Status,
) (*Request, error) {
	if !status.IsDecision() {
		return nil, ErrInvalidDecision
	}
	if !core.IsCanonicalID(requestID) {
		return nil, fmt.Errorf("parse request id %q: %w", requestID, core.ErrNotFound)
	}

	var bookID string
	err := s.tx.InTx(ctx, func(q core.DBTX) error {
		repo := NewRepository(q)

		req, err := repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		bookID = req.BookID

		if !CanTransition(req.Status, status) {
			return fmt.Errorf(
				"decide %s on %s request: %w",
				status, req.Status, core.ErrInvalidState,
			)
		}

		if err := repo.UpdateStatus(ctx, req.ID, req.Status, status, s.now()); err != nil {
			return err
		}

		if status == StatusApproved {
			return s.setAvailability(ctx, q, req.BookID, false)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "borrow.decided",
		attribute.String("borrow.id", requestID),
		attribute.String("borrow.status", string(status)),
	)
	slog.InfoContext(ctx, "borrow request decided",
		"request_id", requestID,
		"book_id", bookID,
		"status", status,
	)

	return s.repo.GetByID(ctx, requestID)
}

// Return closes an approved loan. Only the borrower may return it, and
// the book becomes available again in the same transaction.
func (s *Service) Return(
	ctx context.Context,
	requestID, actingUserID string,
) (*Request, error) {
	if !core.IsCanonicalID(requestID) {
		return nil, fmt.Errorf("parse request id %q: %w", requestID, core.ErrNotFound)
	}

	var bookID string
	err := s.tx.InTx(ctx, func(q core.DBTX) error {
		repo := NewRepository(q)

		req, err := repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		bookID = req.BookID

		if req.UserID != actingUserID {
			return ErrNotOwner
		}

		if !CanTransition(req.Status, StatusReturned) {
			return fmt.Errorf(
				"return %s request: %w",
				req.Status, core.ErrInvalidState,
			)
		}

		if err := repo.UpdateStatus(
			ctx, req.ID, req.Status, StatusReturned, s.now(),
		); err != nil {
			return err
		}

		return s.setAvailability(ctx, q, req.BookID, true)
	})
	if err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "borrow.returned",
		attribute.String("borrow.id", requestID),
		attribute.String("book.id", bookID),
	)
	slog.InfoContext(ctx, "book returned",
		"request_id", requestID,
		"book_id", bookID,
		"user_id", actingUserID,
	)

	return s.repo.GetByID(ctx, requestID)
}

func (s *Service) CountRequests(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) setAvailability(
	ctx context.Context,
	q core.DBTX,
	bookID string,
	available bool,
) error {
	err := s.books(q).SetAvailability(ctx, bookID, available)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "borrowed book no longer exists", "book_id", bookID)
		return nil
	}
	return err
}

// AngelaMos | 2026
// stats.go

package admin

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/librisys/backend/internal/borrow"
)

type BookCounter interface {
	CountBooks(ctx context.Context) (int, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

type RequestCounter interface {
	CountRequests(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[borrow.Status]int, error)
}

type LibraryStats struct {
	TotalBooks       int `json:"totalBooks"`
	TotalUsers       int `json:"totalUsers"`
	TotalRequests    int `json:"totalRequests"`
	PendingRequests  int `json:"pendingRequests"`
	ApprovedRequests int `json:"approvedRequests"`
	RejectedRequests int `json:"rejectedRequests"`
}

// StatsService recomputes the counts on every call. Nothing is cached.
type StatsService struct {
	books    BookCounter
	users    UserCounter
	requests RequestCounter
}

func NewStatsService(
	books BookCounter,
	users UserCounter,
	requests RequestCounter,
) *StatsService {
	return &StatsService{
		books:    books,
		users:    users,
		requests: requests,
	}
}

func (s *StatsService) Library(ctx context.Context) (*LibraryStats, error) {
	var (
		stats    LibraryStats
		byStatus map[borrow.Status]int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.books.CountBooks(gctx)
		stats.TotalBooks = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.CountUsers(gctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.requests.CountRequests(gctx)
		stats.TotalRequests = n
		return err
	})
	g.Go(func() error {
		counts, err := s.requests.CountByStatus(gctx)
		byStatus = counts
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("library stats: %w", err)
	}

	stats.PendingRequests = byStatus[borrow.StatusPending]
	stats.ApprovedRequests = byStatus[borrow.StatusApproved]
	stats.RejectedRequests = byStatus[borrow.StatusRejected]

	return &stats, nil
}

// AngelaMos | 2026
// repository.go

package borrow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/librisys/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	HasPending(ctx context.Context, userID, bookID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)
	UpdateStatus(
		ctx context.Context,
		id string,
		from, to Status,
		at time.Time,
	) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const joinedSelect = `
	SELECT r.id, r.user_id, r.book_id, r.status, r.created_at, r.updated_at,
	       COALESCE(b.title, '') AS book_title,
	       COALESCE(u.name, '') AS user_name
	FROM borrow_requests r
	LEFT JOIN books b ON b.id = r.book_id
	LEFT JOIN users u ON u.id = r.user_id`

func (r *repository) Create(ctx context.Context, req *Request) error {
	query := r.db.Rebind(`
		INSERT INTO borrow_requests (id, user_id, book_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.UserID,
		req.BookID,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create borrow request: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Request, error) {
	query := r.db.Rebind(joinedSelect + ` WHERE r.id = ?`)

	var req Request
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get borrow request: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get borrow request: %w", err)
	}

	return &req, nil
}

func (r *repository) HasPending(
	ctx context.Context,
	userID, bookID string,
) (bool, error) {
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM borrow_requests
		WHERE user_id = ? AND book_id = ? AND status = ?`)

	var n int
	if err := r.db.GetContext(ctx, &n, query, userID, bookID, StatusPending); err != nil {
		return false, fmt.Errorf("find pending request: %w", err)
	}

	return n > 0, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Request, error) {
	query := r.db.Rebind(joinedSelect + `
		WHERE r.user_id = ?
		ORDER BY r.created_at DESC`)

	reqs := []Request{}
	if err := r.db.SelectContext(ctx, &reqs, query, userID); err != nil {
		return nil, fmt.Errorf("list borrow requests by user: %w", err)
	}

	return reqs, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Request, error) {
	query := joinedSelect + ` ORDER BY r.created_at DESC`

	reqs := []Request{}
	if err := r.db.SelectContext(ctx, &reqs, query); err != nil {
		return nil, fmt.Errorf("list borrow requests: %w", err)
	}

	return reqs, nil
}

// UpdateStatus moves a request only if it is still in from. A lost race
// or a stale read surfaces as ErrInvalidState.
func (r *repository) UpdateStatus(
	ctx context.Context,
	id string,
	from, to Status,
	at time.Time,
) error {
	query := r.db.Rebind(`
		UPDATE borrow_requests
		SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`)

	result, err := r.db.ExecContext(ctx, query, to, at, id, from)
	if err != nil {
		return fmt.Errorf("update borrow status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update borrow status: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf(
			"update borrow status %s -> %s: %w",
			from, to, core.ErrInvalidState,
		)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM borrow_requests`); err != nil {
		return 0, fmt.Errorf("count borrow requests: %w", err)
	}
	return n, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	var rows []struct {
		Status Status `db:"status"`
		N      int    `db:"n"`
	}

	query := `SELECT status, COUNT(*) AS n FROM borrow_requests GROUP BY status`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count borrow requests by status: %w", err)
	}

	counts := map[Status]int{
		StatusPending:  0,
		StatusApproved: 0,
		StatusRejected: 0,
		StatusReturned: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.N
	}

	return counts, nil
}

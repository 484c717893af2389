// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/librisys/backend/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id string) (*Book, error)
	Create(ctx context.Context, book *Book) error
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const bookColumns = `id, title, author, isbn, availability, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC`

	books := []Book{}
	if err := r.db.SelectContext(ctx, &books, query); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Book, error) {
	query := r.db.Rebind(`SELECT ` + bookColumns + ` FROM books WHERE id = ?`)

	var book Book
	err := r.db.GetContext(ctx, &book, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get book: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	return &book, nil
}

func (r *repository) Create(ctx context.Context, book *Book) error {
	query := r.db.Rebind(`
		INSERT INTO books (` + bookColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.Availability,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create book: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create book: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, book *Book) error {
	query := r.db.Rebind(`
		UPDATE books
		SET title = ?, author = ?, isbn = ?, availability = ?, updated_at = ?
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		book.Title,
		book.Author,
		book.ISBN,
		book.Availability,
		book.UpdatedAt,
		book.ID,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update book: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update book: %w", err)
	}

	return requireRow(result, "update book")
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM books WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	return requireRow(result, "delete book")
}

func (r *repository) SetAvailability(
	ctx context.Context,
	id string,
	available bool,
) error {
	query := r.db.Rebind(`
		UPDATE books SET availability = ?, updated_at = ? WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		available,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("set book availability: %w", err)
	}

	return requireRow(result, "set book availability")
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM books`); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

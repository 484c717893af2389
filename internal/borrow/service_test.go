// AngelaMos | 2026
// service_test.go

package borrow_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librisys/backend/internal/borrow"
	"github.com/librisys/backend/internal/catalog"
	"github.com/librisys/backend/internal/core"
	"github.com/librisys/backend/internal/testutil"
	"github.com/librisys/backend/internal/user"
)

type fixture struct {
	borrow  *borrow.Service
	books   *catalog.Service
	users   *user.Service
	catalog catalog.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDatabase(t)
	bookRepo := catalog.NewRepository(db.DB)

	return &fixture{
		borrow: borrow.NewService(db.DB, db,
			func(q core.DBTX) borrow.BookAvailability {
				return catalog.NewRepository(q)
			},
		),
		books:   catalog.NewService(bookRepo),
		users:   user.NewService(user.NewRepository(db.DB)),
		catalog: bookRepo,
	}
}

func (f *fixture) student(t *testing.T, email string) string {
	t.Helper()
	u, err := f.users.Create(context.Background(), email, "hash", "Student "+email)
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) book(t *testing.T, isbn string) *catalog.Book {
	t.Helper()
	b, err := f.books.Create(context.Background(), catalog.CreateBookRequest{
		Title: "Book " + isbn,
		ISBN:  isbn,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) available(t *testing.T, bookID string) bool {
	t.Helper()
	b, err := f.books.Get(context.Background(), bookID)
	require.NoError(t, err)
	return b.Availability
}

func TestBorrowLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.student(t, "alice@school.edu")
	bob := f.student(t, "bob@school.edu")
	book := f.book(t, "42")

	req, err := f.borrow.Create(ctx, alice, book.ID)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusPending, req.Status)
	assert.Equal(t, "Book 42", req.BookTitle)
	assert.Equal(t, "Student alice@school.edu", req.UserName)
	assert.True(t, f.available(t, book.ID))

	approved, err := f.borrow.Decide(ctx, req.ID, borrow.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusApproved, approved.Status)
	assert.False(t, f.available(t, book.ID))

	returned, err := f.borrow.Return(ctx, req.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusReturned, returned.Status)
	assert.True(t, f.available(t, book.ID))

	next, err := f.borrow.Create(ctx, bob, book.ID)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusPending, next.Status)
}

func TestCreateRejectsSecondPendingRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.student(t, "alice@school.edu")
	book := f.book(t, "42")

	first, err := f.borrow.Create(ctx, alice, book.ID)
	require.NoError(t, err)

	_, err = f.borrow.Create(ctx, alice, book.ID)
	require.ErrorIs(t, err, borrow.ErrDuplicatePending)

	_, err = f.borrow.Decide(ctx, first.ID, borrow.StatusRejected)
	require.NoError(t, err)

	_, err = f.borrow.Create(ctx, alice, book.ID)
	assert.NoError(t, err, "a decided request no longer blocks a new one")
}

func TestCreateIgnoresAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.student(t, "alice@school.edu")
	book := f.book(t, "42")
	require.NoError(t, f.catalog.SetAvailability(ctx, book.ID, false))

	_, err := f.borrow.Create(ctx, alice, book.ID)
	assert.NoError(t, err)
}

func TestDecideOnlyFromPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.student(t, "alice@school.edu")
	book := f.book(t, "42")

	req, err := f.borrow.Create(ctx, alice, book.ID)
	require.NoError(t, err)

	_, err = f.borrow.Decide(ctx, req.ID, borrow.StatusApproved)
	require.NoError(t, err)

	_, err = f.borrow.Decide(ctx, req.ID, borrow.StatusRejected)
	require.ErrorIs(t, err, core.ErrInvalidState)

	_, err = f.borrow.Decide(ctx, req.ID, borrow.StatusApproved)
	require.ErrorIs(t, err, core.ErrInvalidState)

	_, err = f.borrow.Decide(ctx, req.ID, borrow.StatusReturned)
	require.ErrorIs(t, err, borrow.ErrInvalidDecision)
}

func TestRejectLeavesBookAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.student(t, "alice@school.edu")
	book := f.book(t, "42")

	req, err := f.borrow.Create(ctx, alice, book.ID)
	require.NoError(t, err)

	rejected, err := f.borrow.Decide(ctx, req.ID, borrow.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusRejected, rejected.Status)
	assert.True(t, f.available(t, book.ID))
}

func TestDecideMissingRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.borrow.Decide(ctx, uuid.New().String(), borrow.StatusApproved)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = f.borrow.Decide(ctx, "17", borrow.StatusApproved)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestApproveToleratesDeletedBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.student(t, "alice@school.edu")
	book := f.book(t, "42")

	req, err := f.borrow.Create(ctx, alice, book.ID)
	require.NoError(t, err)
	require.NoError(t, f.books.Delete(ctx, book.ID))

	approved, err := f.borrow.Decide(ctx, req.ID, borrow.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusApproved, approved.Status)
	assert.Empty(t, approved.BookTitle)

	returned, err := f.borrow.Return(ctx, req.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusReturned, returned.Status)
}

func TestReturnGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.student(t, "alice@school.edu")
	bob := f.student(t, "bob@school.edu")
	book := f.book(t, "42")

	req, err := f.borrow.Create(ctx, alice, book.ID)
	require.NoError(t, err)

	_, err = f.borrow.Return(ctx, req.ID, alice)
	require.ErrorIs(t, err, core.ErrInvalidState, "pending requests cannot be returned")

	_, err = f.borrow.Decide(ctx, req.ID, borrow.StatusApproved)
	require.NoError(t, err)

	_, err = f.borrow.Return(ctx, req.ID, bob)
	require.ErrorIs(t, err, borrow.ErrNotOwner)
	assert.False(t, f.available(t, book.ID))

	_, err = f.borrow.Return(ctx, req.ID, alice)
	require.NoError(t, err)

	_, err = f.borrow.Return(ctx, req.ID, alice)
	require.ErrorIs(t, err, core.ErrInvalidState)

	_, err = f.borrow.Return(ctx, uuid.New().String(), alice)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestListsAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.student(t, "alice@school.edu")
	bob := f.student(t, "bob@school.edu")
	b1 := f.book(t, "1")
	b2 := f.book(t, "2")

	r1, err := f.borrow.Create(ctx, alice, b1.ID)
	require.NoError(t, err)
	r2, err := f.borrow.Create(ctx, alice, b2.ID)
	require.NoError(t, err)
	_, err = f.borrow.Create(ctx, bob, b1.ID)
	require.NoError(t, err)

	_, err = f.borrow.Decide(ctx, r1.ID, borrow.StatusApproved)
	require.NoError(t, err)
	_, err = f.borrow.Decide(ctx, r2.ID, borrow.StatusRejected)
	require.NoError(t, err)

	mine, err := f.borrow.ListMine(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, r2.ID, mine[0].ID, "newest first")
	for _, r := range mine {
		assert.Equal(t, alice, r.UserID)
	}

	all, err := f.borrow.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	total, err := f.borrow.CountRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	byStatus, err := f.borrow.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, byStatus[borrow.StatusPending])
	assert.Equal(t, 1, byStatus[borrow.StatusApproved])
	assert.Equal(t, 1, byStatus[borrow.StatusRejected])
	assert.Equal(t, 0, byStatus[borrow.StatusReturned])
}

func TestConcurrentDecisionsOnDistinctRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 20
	requests := make([]*borrow.Request, n)
	books := make([]*catalog.Book, n)
	for i := range n {
		student := f.student(t, fmt.Sprintf("student%d@school.edu", i))
		books[i] = f.book(t, fmt.Sprintf("isbn-%d", i))

		req, err := f.borrow.Create(ctx, student, books[i].ID)
		require.NoError(t, err)
		requests[i] = req
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.borrow.Decide(ctx, requests[i].ID, borrow.StatusApproved)
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i], "request %d", i)
		assert.False(t, f.available(t, books[i].ID))
	}

	counts, err := f.borrow.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, counts[borrow.StatusApproved])
	assert.Equal(t, 0, counts[borrow.StatusPending])
}

func TestConcurrentDecisionsOnSameRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.student(t, "race@school.edu")
	book := f.book(t, "race-1")
	req, err := f.borrow.Create(ctx, student, book.ID)
	require.NoError(t, err)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := borrow.StatusApproved
			if i%2 == 1 {
				status = borrow.StatusRejected
			}
			_, errs[i] = f.borrow.Decide(ctx, req.ID, status)
		}()
	}
	wg.Wait()

	committed := 0
	for _, err := range errs {
		if err == nil {
			committed++
			continue
		}
		assert.ErrorIs(t, err, core.ErrInvalidState)
	}
	assert.Equal(t, 1, committed)
}

func TestNonCanonicalIDsAreNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.student(t, "ids@school.edu")
	book := f.book(t, "ids-1")
	req, err := f.borrow.Create(ctx, student, book.ID)
	require.NoError(t, err)

	for _, id := range []string{
		strings.ToUpper(req.ID),
		"urn:uuid:" + req.ID,
		"{" + req.ID + "}",
	} {
		_, err := f.borrow.Decide(ctx, id, borrow.StatusApproved)
		assert.ErrorIs(t, err, core.ErrNotFound, id)

		_, err = f.borrow.Return(ctx, id, student)
		assert.ErrorIs(t, err, core.ErrNotFound, id)
	}

	_, err = f.borrow.Create(ctx, student, strings.ToUpper(book.ID))
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	got, err := f.borrow.Decide(ctx, req.ID, borrow.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusApproved, got.Status)
}

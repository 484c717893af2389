// AngelaMos | 2026
// handler_test.go

package borrow_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librisys/backend/internal/auth"
	"github.com/librisys/backend/internal/borrow"
	"github.com/librisys/backend/internal/catalog"
	"github.com/librisys/backend/internal/core"
	"github.com/librisys/backend/internal/middleware"
	"github.com/librisys/backend/internal/testutil"
	"github.com/librisys/backend/internal/user"
)

type api struct {
	t       *testing.T
	router  http.Handler
	authSvc *auth.Service
	books   *catalog.Service
}

func newAPI(t *testing.T) *api {
	t.Helper()

	db := testutil.NewDatabase(t)
	jwtManager := testutil.NewJWTManager(t)

	userSvc := user.NewService(user.NewRepository(db.DB))
	authSvc := auth.NewService(jwtManager, userSvc)
	bookSvc := catalog.NewService(catalog.NewRepository(db.DB))
	borrowSvc := borrow.NewService(db.DB, db,
		func(q core.DBTX) borrow.BookAvailability {
			return catalog.NewRepository(q)
		},
	)

	authenticator := middleware.Authenticator(jwtManager, userSvc)
	studentOnly := middleware.RequireRole("student")
	staffOnly := middleware.RequireRole("librarian", "admin")

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		borrow.NewHandler(borrowSvc).RegisterRoutes(r, authenticator, studentOnly, staffOnly)
	})

	return &api{t: t, router: r, authSvc: authSvc, books: bookSvc}
}

func (a *api) register(email string) string {
	a.t.Helper()
	resp, err := a.authSvc.Register(context.Background(), auth.RegisterRequest{
		Name:     "User " + email,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(a.t, err)
	return resp.Token
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, path, &buf)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestBorrowRoutes(t *testing.T) {
	a := newAPI(t)

	alice := a.register("alice@school.edu")
	bob := a.register("bob@school.edu")
	librarian := a.register("desk@librarian.com")
	admin := a.register("head@admin.com")

	book, err := a.books.Create(context.Background(), catalog.CreateBookRequest{
		Title: "Dune",
		ISBN:  "42",
	})
	require.NoError(t, err)

	rec := a.do(http.MethodPost, "/api/borrow", librarian, map[string]string{"bookId": book.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code, "only students request books")

	rec = a.do(http.MethodPost, "/api/borrow", "", map[string]string{"bookId": book.ID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodPost, "/api/borrow", alice, map[string]string{"bookId": "42"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.KindValidation, decode[core.ErrorBody](t, rec).Kind)

	rec = a.do(http.MethodPost, "/api/borrow", alice, map[string]string{"bookId": book.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[borrow.RequestResponse](t, rec)
	assert.Equal(t, borrow.StatusPending, created.Status)
	assert.Equal(t, "Dune", created.BookTitle)

	rec = a.do(http.MethodPost, "/api/borrow", alice, map[string]string{"bookId": book.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.KindConflict, decode[core.ErrorBody](t, rec).Kind)

	statusPath := "/api/borrow/" + created.ID + "/status"
	rec = a.do(http.MethodPut, statusPath, alice, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "owners cannot approve their own request")

	rec = a.do(http.MethodPut, statusPath, librarian, map[string]string{"status": "returned"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPut, statusPath, librarian, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)
	decided := decode[borrow.TransitionResponse](t, rec)
	assert.Equal(t, "Request approved successfully", decided.Message)
	assert.Equal(t, borrow.StatusApproved, decided.Request.Status)

	rec = a.do(http.MethodPut, statusPath, admin, map[string]string{"status": "rejected"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.KindInvalidState, decode[core.ErrorBody](t, rec).Kind)

	returnPath := "/api/borrow/" + created.ID + "/return"
	rec = a.do(http.MethodPut, returnPath, bob, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, core.KindForbidden, decode[core.ErrorBody](t, rec).Kind)

	rec = a.do(http.MethodPut, returnPath, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	returned := decode[borrow.TransitionResponse](t, rec)
	assert.Equal(t, "Book returned successfully", returned.Message)
	assert.Equal(t, borrow.StatusReturned, returned.Request.Status)

	rec = a.do(http.MethodPut, returnPath, alice, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.KindInvalidState, decode[core.ErrorBody](t, rec).Kind)

	rec = a.do(http.MethodGet, "/api/borrow/my", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]borrow.RequestResponse](t, rec), 1)

	rec = a.do(http.MethodGet, "/api/borrow/my", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]borrow.RequestResponse](t, rec))

	rec = a.do(http.MethodGet, "/api/borrow/all", alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodGet, "/api/borrow/all", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]borrow.RequestResponse](t, rec)
	require.Len(t, all, 1)
	assert.Equal(t, "User alice@school.edu", all[0].UserName)
}

func TestBorrowRoutesMissingRequest(t *testing.T) {
	a := newAPI(t)
	librarian := a.register("desk@librarian.com")
	alice := a.register("alice@school.edu")

	rec := a.do(http.MethodPut, "/api/borrow/999/status", librarian, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, core.KindNotFound, decode[core.ErrorBody](t, rec).Kind)

	rec = a.do(http.MethodPut, "/api/borrow/999/return", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

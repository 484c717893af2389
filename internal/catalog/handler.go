// AngelaMos | 2026
// handler.go

package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/librisys/backend/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the catalog. Listing is public; writes need staff.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, staffOnly func(http.Handler) http.Handler,
) {
	r.Route("/books", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(staffOnly)

			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := make([]BookResponse, 0, len(books))
	for i := range books {
		resp = append(resp, ToBookResponse(&books[i]))
	}

	core.OK(w, resp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	book, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, ToBookResponse(book))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	book, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToBookResponse(book))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}

	core.Message(w, "Book deleted successfully")
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrDuplicateKey) {
		core.JSONError(w, core.DuplicateError("isbn"))
		return
	}
	core.JSONError(w, core.ToAppError(err, "book"))
}

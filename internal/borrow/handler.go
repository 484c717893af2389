// AngelaMos | 2026
// handler.go

package borrow

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/librisys/backend/internal/core"
	"github.com/librisys/backend/internal/middleware"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, studentOnly, staffOnly func(http.Handler) http.Handler,
) {
	r.Route("/borrow", func(r chi.Router) {
		r.Use(authenticator)

		r.Group(func(r chi.Router) {
			r.Use(studentOnly)
			r.Post("/", h.Create)
			r.Get("/my", h.ListMine)
			r.Put("/{id}/return", h.Return)
		})

		r.Group(func(r chi.Router) {
			r.Use(staffOnly)
			r.Get("/all", h.ListAll)
			r.Put("/{id}/status", h.Decide)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	created, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.BookID,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToRequestResponse(created))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toRequestResponses(reqs))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.service.ListAll(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toRequestResponses(reqs))
}

func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	decided, err := h.service.Decide(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message: "Request " + string(req.Status) + " successfully",
		Request: ToRequestResponse(decided),
	})
}

func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	returned, err := h.service.Return(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message: "Book returned successfully",
		Request: ToRequestResponse(returned),
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDuplicatePending):
		core.JSONError(
			w,
			core.ConflictError("you already have a pending request for this book"),
		)
	case errors.Is(err, ErrNotOwner):
		core.Forbidden(w, "you can only return your own borrowed books")
	case errors.Is(err, ErrInvalidDecision):
		core.BadRequest(w, ErrInvalidDecision.Error())
	case errors.Is(err, core.ErrInvalidState):
		core.JSONError(
			w,
			core.InvalidStateError("request cannot move to that status from its current one"),
		)
	default:
		core.JSONError(w, core.ToAppError(err, "borrow request"))
	}
}

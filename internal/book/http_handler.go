package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return Input{}, false
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return Input{}, false
	}
	return in, true
}

// writeError maps service errors onto responses. Unexpected errors are logged
// and answered with a generic 500.
func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Book not found")
	case errors.Is(err, ErrDuplicateISBN):
		httpx.Conflict(w, r, "A book with this ISBN already exists")
	case errors.Is(err, ErrInvalidDate):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "published_date", Message: "must be a date (YYYY-MM-DD)"}})
	default:
		h.log.Error("book request failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		httpx.InternalError(w, r)
	}
}

// List handles GET /api/books?search=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, views, nil)
}

// Get handles GET /api/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.BadRequest(w, r, "Invalid book id")
		return
	}
	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// Head handles HEAD /api/books/{id}
func (h *HTTPHandler) Head(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	exists, err := h.service.Exists(r.Context(), id)
	if err != nil {
		h.log.Error("book exists check failed", zap.Int64("id", id), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	view, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/books/"+strconv.FormatInt(view.ID, 10))
	httpx.JSONSuccessCreated(w, r, view)
}

// Update handles PUT /api/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.BadRequest(w, r, "Invalid book id")
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	view, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// Delete handles DELETE /api/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.BadRequest(w, r, "Invalid book id")
		return
	}
	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !deleted {
		httpx.NotFound(w, r, "Book not found")
		return
	}
	httpx.JSONSuccessNoContent(w)
}

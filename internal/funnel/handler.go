package funnel

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swifthomeoffer/cashoffer-platform/internal/funnel/progress"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// Handler exposes the funnel session endpoints.
type Handler struct {
	machine *Machine
	logger  *logging.Logger
}

// NewHandler creates a funnel HTTP handler.
func NewHandler(machine *Machine, logger *logging.Logger) *Handler {
	if machine == nil {
		panic("funnel: machine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{machine: machine, logger: logger}
}

// Routes mounts the session endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sessions", h.Start)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Get("/resume", h.Resume)
		r.Post("/next", h.Next)
		r.Post("/back", h.Back)
		r.Post("/select", h.Select)
	})
	return r
}

type answersRequest struct {
	Answers map[string]any `json:"answers"`
}

// Start handles POST /funnel/sessions.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if r.Body != nil {
		// An empty body starts a blank session.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	view, err := h.machine.Start(r.Context(), req)
	if err != nil {
		h.logger.Error("funnel start failed", "error", err)
		http.Error(w, "could not start session", http.StatusInternalServerError)
		return
	}
	h.writeView(w, http.StatusCreated, view)
}

// Get handles GET /funnel/sessions/{sessionID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.machine.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, view)
}

// Resume handles GET /funnel/sessions/{sessionID}/resume. Sessions without
// real progress report 404 and are cleared server-side.
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	view, err := h.machine.Resume(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, view)
}

// Next handles POST /funnel/sessions/{sessionID}/next.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	var req answersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.machine.Next(r.Context(), chi.URLParam(r, "sessionID"), req.Answers)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, view)
}

// Back handles POST /funnel/sessions/{sessionID}/back.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	view, err := h.machine.Back(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, view)
}

// Select handles POST /funnel/sessions/{sessionID}/select.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req answersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.machine.Select(r.Context(), chi.URLParam(r, "sessionID"), req.Answers)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, view)
}

func (h *Handler) writeView(w http.ResponseWriter, status int, view View) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(view)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error":         "validation failed",
			"invalidFields": valErr.Fields,
		})
	case errors.Is(err, progress.ErrNotFound), errors.Is(err, progress.ErrNoRealProgress):
		http.Error(w, "session not found", http.StatusNotFound)
	default:
		h.logger.Error("funnel request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

package slots

import (
	"encoding/json"
	"net/http"

	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// Handler serves the /slots endpoint for the scarcity banner.
type Handler struct {
	counter *Counter
	logger  *logging.Logger
}

// NewHandler creates a new slots handler.
func NewHandler(counter *Counter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{counter: counter, logger: logger}
}

type decrementRequest struct {
	Action string `json:"action"`
}

// Get handles GET /slots. A store failure degrades to the full allocation
// so the banner still renders.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	state, err := h.counter.Read(r.Context())
	if err != nil {
		h.logger.Error("slots read failed", "error", err)
		state = State{MonthKey: MonthKey(h.counter.now()), Remaining: h.counter.allocation}
	}
	json.NewEncoder(w).Encode(state)
}

// Decrement handles POST /slots with {"action":"decrement"}.
func (h *Handler) Decrement(w http.ResponseWriter, r *http.Request) {
	var req decrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Action != "decrement" {
		http.Error(w, "expected action \"decrement\"", http.StatusBadRequest)
		return
	}

	state, err := h.counter.Decrement(r.Context())
	if err != nil {
		h.logger.Error("slots decrement failed", "error", err)
		http.Error(w, "slot counter unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"remaining": state.Remaining})
}

package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// Handler serves POST /book-appointment.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("booking: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// BookAppointment handles POST /book-appointment. An unqualified lead is
// the one deliberate 400 in the public API; the rejection body carries the
// score and the reasons so the client can show them.
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Start.IsZero() {
		http.Error(w, "selectedSlot is required", http.StatusBadRequest)
		return
	}

	confirmation, rejection, err := h.service.Book(r.Context(), req)
	switch {
	case errors.Is(err, ErrNotQualified):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(rejection)
	case err != nil:
		h.logger.Error("booking failed", "error", err)
		http.Error(w, "could not book appointment", http.StatusBadGateway)
		return
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(confirmation)
	}
}

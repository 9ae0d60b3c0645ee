package scheduling

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// Handler serves GET /get-available-slots.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a scheduling handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("scheduling: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SlotsResponse is the available-slots wire shape.
type SlotsResponse struct {
	Timezone string `json:"timezone"`
	Days     []Day  `json:"days"`
}

// GetAvailableSlots handles GET /get-available-slots?timezone=. An
// unrecognized timezone falls back to UTC rather than failing.
func (h *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	loc := time.UTC
	if tz := r.URL.Query().Get("timezone"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			h.logger.Warn("unknown timezone, using UTC", "timezone", tz)
		} else {
			loc = parsed
		}
	}

	days := h.service.AvailableSlots(r.Context(), loc)
	if days == nil {
		days = []Day{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SlotsResponse{Timezone: loc.String(), Days: days})
}

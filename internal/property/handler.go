package property

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// Handler serves GET /property-lookup.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new property lookup handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// LookupResponse is the wire shape: upstream failures are embedded in the
// body rather than surfaced as HTTP errors.
type LookupResponse struct {
	OK    bool   `json:"ok"`
	Data  *Data  `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Lookup handles GET /property-lookup?address=. Always 200.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		json.NewEncoder(w).Encode(LookupResponse{OK: false, Error: "address is required"})
		return
	}

	data, err := h.service.Lookup(r.Context(), address)
	if err != nil {
		h.logger.Warn("property lookup failed", "address", address, "error", err)
		json.NewEncoder(w).Encode(LookupResponse{OK: false, Error: "property data unavailable"})
		return
	}

	json.NewEncoder(w).Encode(LookupResponse{OK: true, Data: data})
}

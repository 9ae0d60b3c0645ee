package offer

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/swifthomeoffer/cashoffer-platform/internal/observability/metrics"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// Handler serves offer calculations over HTTP
type Handler struct {
	logger  *logging.Logger
	metrics *metrics.FunnelMetrics
}

// NewHandler creates a new offer handler
func NewHandler(logger *logging.Logger, m *metrics.FunnelMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{logger: logger, metrics: m}
}

// Response is the wire shape for POST /calculate-offer.
type Response struct {
	Success            bool        `json:"success"`
	Degraded           bool        `json:"degraded"`
	DegradedReason     string      `json:"degradedReason,omitempty"`
	MarketValue        MarketValue `json:"marketValue"`
	CashOfferRange     Range       `json:"cashOfferRange"`
	QualificationScore int         `json:"qualificationScore"`
	LeadPriorityScore  int         `json:"leadPriorityScore"`
	LeadPriorityLevel  string      `json:"leadPriorityLevel"`
	Tier               string      `json:"tier"`
	PropertyInsights   []string    `json:"propertyInsights"`
	NextSteps          []string    `json:"nextSteps"`
}

// Calculate handles POST /calculate-offer. The endpoint always responds
// 200: a broken request body or a failed primary calculation degrades to
// the fallback numbers instead of surfacing an error to the funnel.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var in Input
	var result Result
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("offer request body unreadable, using fallback", "error", err)
		result = calculateFallback(Input{}, fmt.Errorf("offer: decode request: %w", err))
	} else {
		result = Calculate(in)
	}

	h.metrics.ObserveOffer(result.Degraded)
	if result.Degraded {
		h.logger.Warn("offer calculation degraded", "reason", result.DegradedReason)
	} else {
		h.logger.Info("offer calculated",
			"primary", result.CashOfferRange.Primary,
			"qualification_score", result.QualificationScore,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{
		Success:            true,
		Degraded:           result.Degraded,
		DegradedReason:     result.DegradedReason,
		MarketValue:        result.MarketValue,
		CashOfferRange:     result.CashOfferRange,
		QualificationScore: result.QualificationScore,
		LeadPriorityScore:  result.LeadPriority.Score,
		LeadPriorityLevel:  result.LeadPriority.Level,
		Tier:               result.Tier,
		PropertyInsights:   result.PropertyInsights,
		NextSteps:          result.NextSteps,
	})
}

package funnel

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/swifthomeoffer/cashoffer-platform/internal/crm"
	"github.com/swifthomeoffer/cashoffer-platform/internal/funnel/progress"
	"github.com/swifthomeoffer/cashoffer-platform/internal/leads"
	"github.com/swifthomeoffer/cashoffer-platform/internal/observability/metrics"
	"github.com/swifthomeoffer/cashoffer-platform/internal/offer"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/phone"
)

// webhookTimeout bounds the fire-and-forget CRM delivery so a slow CRM
// cannot pin goroutines.
const webhookTimeout = 15 * time.Second

// CRMForwarder is the slice of the CRM client the submitter needs.
type CRMForwarder interface {
	SubmitLead(ctx context.Context, payload map[string]any) error
}

// LeadSubmitter turns a completed funnel session into a stored lead, a
// calculated offer, and an async CRM notification. The CRM delivery is
// fire-and-forget: its failures are logged, never surfaced to the seller.
type LeadSubmitter struct {
	repo    leads.Repository
	crm     CRMForwarder
	logger  *logging.Logger
	metrics *metrics.FunnelMetrics
}

// NewLeadSubmitter wires the submitter. The CRM forwarder may be nil when
// no CRM is configured.
func NewLeadSubmitter(repo leads.Repository, forwarder CRMForwarder, logger *logging.Logger, m *metrics.FunnelMetrics) *LeadSubmitter {
	if repo == nil {
		panic("funnel: lead repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadSubmitter{repo: repo, crm: forwarder, logger: logger, metrics: m}
}

// Submit calculates the offer, persists the lead, and kicks off the CRM
// webhook. It always returns a usable result; persistence and delivery
// problems degrade to log lines.
func (s *LeadSubmitter) Submit(ctx context.Context, snap *progress.Snapshot) offer.Result {
	answers := snap.Answers

	in := offer.Input{
		Address:          answerString(answers, "address"),
		State:            answerString(answers, "state"),
		EstimatedValue:   answerFloat(answers, "estimatedValue"),
		Condition:        answerString(answers, "propertyCondition"),
		Timeline:         answerString(answers, "timeline"),
		MarketPace:       answerString(answers, "marketPace"),
		SellerPrice:      answerFloat(answers, "sellerPrice"),
		NovationPrice:    answerFloat(answers, "novationPrice"),
		Motivation:       answerString(answers, "motivation"),
		CashOfferClaimed: answerString(answers, "cashOfferClaimed") == "yes",
		PropertyIssues:   answerStrings(answers, "propertyIssues"),
		Name:             answerString(answers, "name"),
		Email:            answerString(answers, "email"),
		Phone:            normalizedPhone(answers),
	}

	result := offer.Calculate(in)
	s.metrics.ObserveOffer(result.Degraded)

	req := &leads.CreateLeadRequest{
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		Address:            in.Address,
		UserType:           snap.UserType,
		Timeline:           in.Timeline,
		Condition:          in.Condition,
		Motivation:         in.Motivation,
		EstimatedValue:     in.EstimatedValue,
		PropertyIssues:     in.PropertyIssues,
		PriorityScore:      result.LeadPriority.Score,
		PriorityLevel:      result.LeadPriority.Level,
		QualificationScore: result.QualificationScore,
		Tier:               result.Tier,
		Source:             answerString(answers, "source"),
	}
	lead, err := s.repo.Create(ctx, req)
	if err != nil {
		s.logger.Error("lead persistence failed", "session_id", snap.ID, "error", err)
	}

	s.forwardToCRM(snap, req, lead, result)
	return result
}

// forwardToCRM posts the lead to the CRM intake webhook on its own
// goroutine and deadline so submission latency stays independent of the
// CRM's.
func (s *LeadSubmitter) forwardToCRM(snap *progress.Snapshot, req *leads.CreateLeadRequest, lead *leads.Lead, result offer.Result) {
	if s.crm == nil {
		return
	}

	payload := map[string]any{
		"name":               req.Name,
		"email":              req.Email,
		"phone":              req.Phone,
		"address":            req.Address,
		"userType":           req.UserType,
		"timeline":           req.Timeline,
		"propertyCondition":  req.Condition,
		"motivation":         req.Motivation,
		"estimatedValue":     req.EstimatedValue,
		"propertyIssues":     strings.Join(req.PropertyIssues, ","),
		"priorityScore":      req.PriorityScore,
		"priorityLevel":      req.PriorityLevel,
		"qualificationScore": req.QualificationScore,
		"tier":               req.Tier,
		"source":             req.Source,
		"cashOfferLow":       result.CashOfferRange.Low,
		"cashOfferHigh":      result.CashOfferRange.High,
	}
	if lead != nil {
		payload["leadId"] = lead.ID
	}

	sessionID := snap.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()

		if err := s.crm.SubmitLead(ctx, payload); err != nil {
			if errors.Is(err, crm.ErrNotConfigured) {
				return
			}
			s.logger.Warn("crm webhook delivery failed", "session_id", sessionID, "error", err)
			return
		}
		s.logger.Info("crm webhook delivered", "session_id", sessionID)
	}()
}

func normalizedPhone(answers map[string]any) string {
	return phone.NormalizeE164(answerString(answers, "phone"))
}

func answerString(answers map[string]any, key string) string {
	v, ok := answers[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// answerFloat accepts JSON numbers and numeric strings; the funnel client
// sends whichever the input widget produced.
func answerFloat(answers map[string]any, key string) float64 {
	switch v := answers[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func answerStrings(answers map[string]any, key string) []string {
	switch v := answers[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

// Package offer turns a lead's property answers into a market value
// estimate and a cash-offer range. The calculator never fails outright:
// any internal error degrades to a fixed-formula fallback so the funnel
// can always show the lead a number.
package offer

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/swifthomeoffer/cashoffer-platform/internal/scoring"
)

// Input is the property and lead data the calculator reads. All fields are
// optional; missing values fall back to defaults.
type Input struct {
	Address          string   `json:"address"`
	State            string   `json:"state"`
	EstimatedValue   float64  `json:"estimatedValue"`
	Condition        string   `json:"propertyCondition"`
	Timeline         string   `json:"timeline"`
	MarketPace       string   `json:"marketPace"`
	SellerPrice      float64  `json:"sellerPrice"`
	NovationPrice    float64  `json:"novationPrice"`
	Motivation       string   `json:"motivation"`
	CashOfferClaimed bool     `json:"cashOfferClaimed"`
	PropertyIssues   []string `json:"propertyIssues"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
}

// MarketValue is the estimate with a ±10% confidence band.
type MarketValue struct {
	Estimated float64 `json:"estimated"`
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
}

// Range is the cash offer with a ±5% band around the primary figure.
type Range struct {
	Low     float64 `json:"low"`
	Primary float64 `json:"primary"`
	High    float64 `json:"high"`
}

// Result is the full calculation outcome. Degraded marks fallback data so
// callers can tell real numbers from placeholder numbers.
type Result struct {
	MarketValue        MarketValue            `json:"marketValue"`
	CashOfferRange     Range                  `json:"cashOfferRange"`
	QualificationScore int                    `json:"qualificationScore"`
	Tier               string                 `json:"tier"`
	LeadPriority       scoring.PriorityResult `json:"leadPriority"`
	PropertyInsights   []string               `json:"propertyInsights"`
	NextSteps          []string               `json:"nextSteps"`
	Degraded           bool                   `json:"degraded"`
	DegradedReason     string                 `json:"degradedReason,omitempty"`
}

var errNegativeEstimate = errors.New("offer: estimated value is negative")

// Calculate runs the full offer pipeline. It never returns an error: if the
// primary path fails, the fallback calculation is returned with Degraded set.
func Calculate(in Input) Result {
	result, err := calculatePrimary(in)
	if err != nil {
		return calculateFallback(in, err)
	}
	return result
}

func calculatePrimary(in Input) (Result, error) {
	if in.EstimatedValue < 0 {
		return Result{}, errNegativeEstimate
	}

	state := resolveState(in)
	market, known := stateMarkets[state]
	if !known {
		market = defaultMarket
	}

	base := in.EstimatedValue
	if base == 0 {
		base = defaultBaseValue
	}
	estimated := round2(base * market.MultiplierFor(strings.ToLower(in.MarketPace)))

	condMult, ok := conditionMultipliers[strings.ToLower(in.Condition)]
	if !ok {
		condMult = defaultConditionMultiplier
	}
	timeMult, ok := timelineMultipliers[strings.ToLower(in.Timeline)]
	if !ok {
		timeMult = defaultTimelineMultiplier
	}

	primary := round2(estimated * condMult * timeMult)

	priority := scoring.CalculateLeadPriority(scoring.PriorityInput{
		SellerPrice:      in.SellerPrice,
		NovationPrice:    in.NovationPrice,
		EstimatedValue:   in.EstimatedValue,
		Motivation:       in.Motivation,
		Timeline:         in.Timeline,
		Condition:        in.Condition,
		Location:         locationOf(in),
		CashOfferClaimed: in.CashOfferClaimed,
	})
	qualification := scoring.QualifyLead(scoring.QualificationInput{
		EstimatedValue: base,
		Timeline:       in.Timeline,
		Condition:      in.Condition,
		Location:       locationOf(in),
		PropertyIssues: in.PropertyIssues,
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
	})

	return Result{
		MarketValue: MarketValue{
			Estimated: estimated,
			Low:       round2(estimated * 0.90),
			High:      round2(estimated * 1.10),
		},
		CashOfferRange: Range{
			Low:     round2(primary * 0.95),
			Primary: primary,
			High:    round2(primary * 1.05),
		},
		QualificationScore: qualification.Score,
		Tier:               qualification.Tier,
		LeadPriority:       priority,
		PropertyInsights:   insights(state, known, in, condMult, timeMult),
		NextSteps:          nextSteps(qualification),
	}, nil
}

// calculateFallback is the simplified fixed-formula path: base value 250000
// and a 75% cash-offer ratio. It keeps the funnel moving when the primary
// calculation cannot.
func calculateFallback(in Input, cause error) Result {
	primary := round2(defaultBaseValue * fallbackCashRatio)

	priority := scoring.CalculateLeadPriority(scoring.PriorityInput{
		Motivation:       in.Motivation,
		Timeline:         in.Timeline,
		Condition:        in.Condition,
		CashOfferClaimed: in.CashOfferClaimed,
	})
	qualification := scoring.QualifyLead(scoring.QualificationInput{
		EstimatedValue: defaultBaseValue,
		Timeline:       in.Timeline,
		Condition:      in.Condition,
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
	})

	return Result{
		MarketValue: MarketValue{
			Estimated: defaultBaseValue,
			Low:       round2(defaultBaseValue * 0.90),
			High:      round2(defaultBaseValue * 1.10),
		},
		CashOfferRange: Range{
			Low:     round2(primary * 0.95),
			Primary: primary,
			High:    round2(primary * 1.05),
		},
		QualificationScore: qualification.Score,
		Tier:               qualification.Tier,
		LeadPriority:       priority,
		PropertyInsights:   []string{"Estimate based on regional averages; a specialist will refine it on your call."},
		NextSteps:          nextSteps(qualification),
		Degraded:           true,
		DegradedReason:     cause.Error(),
	}
}

func resolveState(in Input) string {
	if state := scoring.StateFromLocation(in.State); state != "" {
		return state
	}
	return scoring.StateFromLocation(in.Address)
}

func locationOf(in Input) string {
	if strings.TrimSpace(in.State) != "" {
		return in.State
	}
	return in.Address
}

func insights(state string, known bool, in Input, condMult, timeMult float64) []string {
	var out []string
	if known {
		out = append(out, fmt.Sprintf("%s market pricing applied", state))
	} else {
		out = append(out, "National average pricing applied")
	}
	if condMult < defaultConditionMultiplier {
		out = append(out, fmt.Sprintf("Condition %q discounts the offer %.0f%%", strings.ToLower(in.Condition), (1-condMult)*100))
	}
	if timeMult <= 0.90 {
		out = append(out, "Fast-close discount applied for your timeline")
	}
	return out
}

func nextSteps(q scoring.QualificationResult) []string {
	if q.Qualified {
		return []string{
			fmt.Sprintf("You qualify for our $%d bonus program", q.TierAmount),
			"Book a call to lock in your offer",
		}
	}
	return []string{
		"A specialist will review your property details",
		"Expect a call within one business day",
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

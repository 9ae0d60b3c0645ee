// Package scoring ranks incoming seller leads so the acquisitions team
// works the hottest deals first. Scores are weighted sums over a fixed
// set of categories; each category reads a discrete point value from a
// lookup table with a default for unrecognized values.
package scoring

import (
	"fmt"
	"strings"
)

// PriorityInput is the subset of a lead record the priority score reads.
// Missing fields score the category default; they never fail the calculation.
type PriorityInput struct {
	SellerPrice      float64 `json:"sellerPrice"`
	NovationPrice    float64 `json:"novationPrice"`
	EstimatedValue   float64 `json:"estimatedValue"`
	Motivation       string  `json:"motivation"`
	Timeline         string  `json:"timeline"`
	Condition        string  `json:"propertyCondition"`
	Location         string  `json:"location"`
	CashOfferClaimed bool    `json:"cashOfferClaimed"`
}

// CategoryScore is one scored category with the reason it scored that way.
type CategoryScore struct {
	Points    int    `json:"points"`
	Rationale string `json:"rationale"`
}

// PriorityResult is the full priority evaluation for a lead.
type PriorityResult struct {
	Score           int                      `json:"score"`
	Level           string                   `json:"level"`
	Breakdown       map[string]CategoryScore `json:"breakdown"`
	Recommendations []string                 `json:"recommendations"`
}

// Priority levels, highest band first.
const (
	LevelUltraHot = "ULTRA HOT 🔥🔥🔥"
	LevelHot      = "HOT 🔥🔥"
	LevelWarm     = "WARM 🔥"
	LevelLukewarm = "LUKEWARM"
	LevelCold     = "COLD"
)

// CalculateLeadPriority scores a lead across margin, deal size, motivation,
// timeline, condition, cash-offer intent, and location. A zero or missing
// seller price leaves the margin category unscored rather than producing a
// NaN percentage.
func CalculateLeadPriority(in PriorityInput) PriorityResult {
	breakdown := make(map[string]CategoryScore, 7)

	breakdown["margin"] = marginScore(in.SellerPrice, in.NovationPrice)
	breakdown["dealSize"] = dealSizeScore(dealValue(in))
	breakdown["motivation"] = tableScore(motivationScores, strings.ToLower(in.Motivation), defaultMotivationPoints, "motivation")
	breakdown["timeline"] = tableScore(timelineScores, strings.ToLower(in.Timeline), defaultTimelinePoints, "timeline")
	breakdown["condition"] = tableScore(conditionScores, strings.ToLower(in.Condition), defaultConditionPoints, "condition")
	breakdown["cashOfferClaimed"] = cashOfferScore(in.CashOfferClaimed)
	breakdown["location"] = locationScore(in.Location)

	total := 0
	for _, c := range breakdown {
		total += c.Points
	}

	level := levelFor(total)
	return PriorityResult{
		Score:           total,
		Level:           level,
		Breakdown:       breakdown,
		Recommendations: recommendationsFor(level, breakdown),
	}
}

func dealValue(in PriorityInput) float64 {
	if in.NovationPrice > 0 {
		return in.NovationPrice
	}
	return in.EstimatedValue
}

// marginScore buckets the wholesale margin percentage. Seller price must be
// positive for the percentage to be defined; anything else is left unscored.
func marginScore(sellerPrice, novationPrice float64) CategoryScore {
	if sellerPrice <= 0 || novationPrice <= 0 {
		return CategoryScore{Points: 0, Rationale: "seller or novation price missing; margin not scored"}
	}
	pct := (novationPrice - sellerPrice) / sellerPrice * 100

	var points int
	switch {
	case pct >= 100:
		points = 40
	case pct >= 70:
		points = 35
	case pct >= 50:
		points = 30
	case pct >= 30:
		points = 22
	case pct >= 15:
		points = 15
	case pct > 0:
		points = 8
	default:
		points = 0
	}
	return CategoryScore{
		Points:    points,
		Rationale: fmt.Sprintf("wholesale margin %.0f%%", pct),
	}
}

func dealSizeScore(value float64) CategoryScore {
	if value <= 0 {
		return CategoryScore{Points: defaultDealSizePoints, Rationale: "deal value unknown"}
	}
	var points int
	switch {
	case value >= 300000:
		points = 15
	case value >= 200000:
		points = 12
	case value >= 120000:
		points = 10
	case value >= 60000:
		points = 6
	default:
		points = 3
	}
	return CategoryScore{
		Points:    points,
		Rationale: fmt.Sprintf("deal value $%.0f", value),
	}
}

func tableScore(table map[string]int, key string, fallback int, category string) CategoryScore {
	if points, ok := table[key]; ok {
		return CategoryScore{Points: points, Rationale: fmt.Sprintf("%s %q", category, key)}
	}
	return CategoryScore{Points: fallback, Rationale: fmt.Sprintf("%s unrecognized or missing", category)}
}

func cashOfferScore(claimed bool) CategoryScore {
	if claimed {
		return CategoryScore{Points: 5, Rationale: "lead claimed the cash offer"}
	}
	return CategoryScore{Points: 0, Rationale: "cash offer not claimed"}
}

func locationScore(location string) CategoryScore {
	state := StateFromLocation(location)
	if state == "" {
		return CategoryScore{Points: 4, Rationale: "location unknown"}
	}
	if _, hot := hotStates[state]; hot {
		return CategoryScore{Points: 8, Rationale: fmt.Sprintf("hot market state %s", state)}
	}
	if _, slow := slowStates[state]; slow {
		return CategoryScore{Points: 3, Rationale: fmt.Sprintf("slow market state %s", state)}
	}
	return CategoryScore{Points: 5, Rationale: fmt.Sprintf("normal market state %s", state)}
}

func levelFor(score int) string {
	switch {
	case score >= 80:
		return LevelUltraHot
	case score >= 65:
		return LevelHot
	case score >= 50:
		return LevelWarm
	case score >= 35:
		return LevelLukewarm
	default:
		return LevelCold
	}
}

func recommendationsFor(level string, breakdown map[string]CategoryScore) []string {
	var recs []string
	switch level {
	case LevelUltraHot:
		recs = append(recs, "Call within 5 minutes", "Assign to senior acquisitions rep")
	case LevelHot:
		recs = append(recs, "Call within 30 minutes")
	case LevelWarm:
		recs = append(recs, "Call within 2 hours")
	case LevelLukewarm:
		recs = append(recs, "Add to same-day follow-up queue")
	default:
		recs = append(recs, "Add to nurture drip campaign")
	}
	if breakdown["margin"].Points >= 35 {
		recs = append(recs, "Lock contract before countering on price")
	}
	if breakdown["timeline"].Points >= 12 {
		recs = append(recs, "Offer expedited closing date")
	}
	if breakdown["cashOfferClaimed"].Points > 0 {
		recs = append(recs, "Reference the claimed cash offer in first contact")
	}
	return recs
}

// StateFromLocation extracts a two-letter state code from a structured state
// value or by substring match on a free-form address.
func StateFromLocation(location string) string {
	loc := strings.ToUpper(strings.TrimSpace(location))
	if loc == "" {
		return ""
	}
	if len(loc) == 2 {
		if _, ok := knownStates[loc]; ok {
			return loc
		}
		return ""
	}
	// Free-form address: the state abbreviation is usually the last
	// two-letter token, so scan from the end.
	tokens := strings.FieldsFunc(loc, func(r rune) bool {
		return r < 'A' || r > 'Z'
	})
	for i := len(tokens) - 1; i >= 0; i-- {
		if len(tokens[i]) != 2 {
			continue
		}
		if _, ok := knownStates[tokens[i]]; ok {
			return tokens[i]
		}
	}
	return ""
}

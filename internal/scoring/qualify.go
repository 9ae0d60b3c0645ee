package scoring

import (
	"fmt"
	"strings"

	"github.com/swifthomeoffer/cashoffer-platform/pkg/phone"
)

// QualificationThreshold is the minimum rubric score for a bookable lead.
const QualificationThreshold = 70

// Tier labels and their incentive amounts in dollars.
const (
	TierBonus    = "bonus"
	TierStandard = "standard"

	BonusTierAmount    = 15000
	StandardTierAmount = 7500
)

// QualificationInput is the lead data the 100-point booking rubric reads.
type QualificationInput struct {
	EstimatedValue float64  `json:"estimatedValue"`
	Timeline       string   `json:"timeline"`
	Condition      string   `json:"propertyCondition"`
	Location       string   `json:"location"`
	PropertyIssues []string `json:"propertyIssues"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
}

// QualificationResult is the rubric outcome. Reasons lists the categories
// where points were lost, for the 400 response on unqualified leads.
type QualificationResult struct {
	Score      int                      `json:"score"`
	Qualified  bool                     `json:"qualified"`
	Tier       string                   `json:"tier"`
	TierAmount int                      `json:"tierAmount"`
	Breakdown  map[string]CategoryScore `json:"breakdown"`
	Reasons    []string                 `json:"reasons,omitempty"`
}

// Issues that materially reduce resale value; each one costs rubric points.
var seriousIssues = map[string]struct{}{
	"foundation":            {},
	"fire-damage":           {},
	"flood-damage":          {},
	"mold":                  {},
	"roof-replacement":      {},
	"unpermitted-additions": {},
}

// QualifyLead scores a lead on a 100-point rubric: value 25, timeline 20,
// condition 15, location 15, absence of serious issues 15, contact
// completeness 10. Leads at or above QualificationThreshold book the bonus
// tier appointment.
func QualifyLead(in QualificationInput) QualificationResult {
	breakdown := make(map[string]CategoryScore, 6)

	breakdown["value"] = valueRubric(in.EstimatedValue)
	breakdown["timeline"] = timelineRubric(strings.ToLower(in.Timeline))
	breakdown["condition"] = conditionRubric(strings.ToLower(in.Condition))
	breakdown["location"] = locationRubric(in.Location)
	breakdown["issues"] = issuesRubric(in.PropertyIssues)
	breakdown["contact"] = contactRubric(in)

	total := 0
	var reasons []string
	for category, c := range breakdown {
		total += c.Points
		if c.Points < rubricMax[category] {
			reasons = append(reasons, c.Rationale)
		}
	}

	result := QualificationResult{
		Score:     total,
		Qualified: total >= QualificationThreshold,
		Breakdown: breakdown,
		Reasons:   reasons,
	}
	if result.Qualified {
		result.Tier = TierBonus
		result.TierAmount = BonusTierAmount
	} else {
		result.Tier = TierStandard
		result.TierAmount = StandardTierAmount
	}
	return result
}

var rubricMax = map[string]int{
	"value":     25,
	"timeline":  20,
	"condition": 15,
	"location":  15,
	"issues":    15,
	"contact":   10,
}

func valueRubric(value float64) CategoryScore {
	var points int
	switch {
	case value >= 300000:
		points = 25
	case value >= 200000:
		points = 22
	case value >= 120000:
		points = 18
	case value >= 60000:
		points = 12
	case value > 0:
		points = 6
	default:
		return CategoryScore{Points: 0, Rationale: "property value unknown"}
	}
	return CategoryScore{Points: points, Rationale: fmt.Sprintf("estimated value $%.0f", value)}
}

func timelineRubric(timeline string) CategoryScore {
	points := map[string]int{
		"asap":          20,
		"1-3-months":    16,
		"3-6-months":    10,
		"6-plus-months": 6,
		"just-browsing": 2,
	}
	if p, ok := points[timeline]; ok {
		return CategoryScore{Points: p, Rationale: fmt.Sprintf("timeline %q", timeline)}
	}
	return CategoryScore{Points: 8, Rationale: "timeline not specified"}
}

func conditionRubric(condition string) CategoryScore {
	points := map[string]int{
		"fixer-upper": 15,
		"needs-work":  13,
		"fair":        11,
		"good":        9,
		"excellent":   7,
		"high-end":    7,
	}
	if p, ok := points[condition]; ok {
		return CategoryScore{Points: p, Rationale: fmt.Sprintf("condition %q", condition)}
	}
	return CategoryScore{Points: 8, Rationale: "condition not specified"}
}

func locationRubric(location string) CategoryScore {
	state := StateFromLocation(location)
	if state == "" {
		return CategoryScore{Points: 5, Rationale: "location unknown"}
	}
	if _, hot := hotStates[state]; hot {
		return CategoryScore{Points: 15, Rationale: fmt.Sprintf("hot market state %s", state)}
	}
	if _, slow := slowStates[state]; slow {
		return CategoryScore{Points: 6, Rationale: fmt.Sprintf("slow market state %s", state)}
	}
	return CategoryScore{Points: 10, Rationale: fmt.Sprintf("normal market state %s", state)}
}

func issuesRubric(issues []string) CategoryScore {
	points := 15
	var found []string
	for _, issue := range issues {
		if _, ok := seriousIssues[strings.ToLower(strings.TrimSpace(issue))]; ok {
			points -= 5
			found = append(found, issue)
		}
	}
	if points < 0 {
		points = 0
	}
	if len(found) == 0 {
		return CategoryScore{Points: points, Rationale: "no serious property issues"}
	}
	return CategoryScore{Points: points, Rationale: fmt.Sprintf("serious issues: %s", strings.Join(found, ", "))}
}

func contactRubric(in QualificationInput) CategoryScore {
	points := 0
	var missing []string
	if strings.TrimSpace(in.Name) != "" {
		points += 3
	} else {
		missing = append(missing, "name")
	}
	if strings.Contains(in.Email, "@") {
		points += 3
	} else {
		missing = append(missing, "email")
	}
	if phone.IsValid(in.Phone) {
		points += 4
	} else {
		missing = append(missing, "phone")
	}
	if len(missing) == 0 {
		return CategoryScore{Points: points, Rationale: "contact info complete"}
	}
	return CategoryScore{Points: points, Rationale: fmt.Sprintf("incomplete contact info: %s", strings.Join(missing, ", "))}
}

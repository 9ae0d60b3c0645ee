package offer

// StateMarket holds per-state value multipliers by market pace, plus the
// base assignment fee the state typically supports.
type StateMarket struct {
	Hot            float64
	Normal         float64
	Slow           float64
	AssignmentBase float64
}

// MultiplierFor returns the value multiplier for a market pace, defaulting
// to the normal pace for unrecognized values.
func (m StateMarket) MultiplierFor(pace string) float64 {
	switch pace {
	case "hot":
		return m.Hot
	case "slow":
		return m.Slow
	default:
		return m.Normal
	}
}

// defaultBaseValue is used when no estimate is supplied, and by the
// fallback calculator.
const defaultBaseValue = 250000

// fallbackCashRatio is the fixed cash-offer ratio the fallback calculator
// applies to the base value.
const fallbackCashRatio = 0.75

var defaultMarket = StateMarket{Hot: 1.04, Normal: 1.00, Slow: 0.96, AssignmentBase: 10000}

// stateMarkets covers the states the business actively buys in. States not
// listed use defaultMarket.
var stateMarkets = map[string]StateMarket{
	"NV": {Hot: 1.08, Normal: 1.03, Slow: 0.97, AssignmentBase: 15000},
	"AZ": {Hot: 1.07, Normal: 1.02, Slow: 0.97, AssignmentBase: 14000},
	"TX": {Hot: 1.06, Normal: 1.02, Slow: 0.98, AssignmentBase: 13000},
	"FL": {Hot: 1.07, Normal: 1.02, Slow: 0.96, AssignmentBase: 14000},
	"GA": {Hot: 1.05, Normal: 1.01, Slow: 0.97, AssignmentBase: 12000},
	"TN": {Hot: 1.05, Normal: 1.01, Slow: 0.97, AssignmentBase: 12000},
	"CA": {Hot: 1.06, Normal: 1.00, Slow: 0.94, AssignmentBase: 18000},
	"CO": {Hot: 1.04, Normal: 1.00, Slow: 0.96, AssignmentBase: 12000},
	"NC": {Hot: 1.04, Normal: 1.01, Slow: 0.97, AssignmentBase: 11000},
	"OH": {Hot: 1.03, Normal: 0.99, Slow: 0.95, AssignmentBase: 9000},
	"MI": {Hot: 1.03, Normal: 0.99, Slow: 0.95, AssignmentBase: 9000},
	"IL": {Hot: 1.02, Normal: 0.98, Slow: 0.94, AssignmentBase: 9000},
	"NY": {Hot: 1.03, Normal: 0.98, Slow: 0.93, AssignmentBase: 12000},
}

// conditionMultipliers discount the market value by renovation burden.
var conditionMultipliers = map[string]float64{
	"high-end":    0.95,
	"excellent":   0.92,
	"good":        0.88,
	"fair":        0.80,
	"needs-work":  0.72,
	"fixer-upper": 0.65,
}

const defaultConditionMultiplier = 0.80

// timelineMultipliers discount for urgency: sellers in a hurry trade price
// for speed.
var timelineMultipliers = map[string]float64{
	"asap":          0.85,
	"1-3-months":    0.90,
	"3-6-months":    0.93,
	"6-plus-months": 0.95,
	"just-browsing": 0.98,
}

const defaultTimelineMultiplier = 0.93

// MarketStates lists every state with an explicit market table entry.
func MarketStates() []string {
	states := make([]string, 0, len(stateMarkets))
	for s := range stateMarkets {
		states = append(states, s)
	}
	return states
}

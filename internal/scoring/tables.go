package scoring

// Default points applied when a categorical value is missing or unrecognized.
const (
	defaultMotivationPoints = 5
	defaultTimelinePoints   = 5
	defaultConditionPoints  = 5
	defaultDealSizePoints   = 5
)

var motivationScores = map[string]int{
	"foreclosure":    15,
	"divorce":        12,
	"financial":      12,
	"tired-landlord": 10,
	"inheritance":    10,
	"relocation":     10,
	"downsizing":     8,
	"curious":        3,
}

var timelineScores = map[string]int{
	"asap":          15,
	"1-3-months":    12,
	"3-6-months":    8,
	"6-plus-months": 4,
	"just-browsing": 2,
}

// Rougher properties score higher: they carry more margin for a cash buyer.
var conditionScores = map[string]int{
	"fixer-upper": 12,
	"needs-work":  10,
	"fair":        8,
	"good":        6,
	"excellent":   4,
	"high-end":    4,
}

var hotStates = map[string]struct{}{
	"NV": {}, "AZ": {}, "TX": {}, "FL": {}, "GA": {}, "TN": {},
}

var slowStates = map[string]struct{}{
	"IL": {}, "NY": {}, "NJ": {}, "CT": {}, "LA": {},
}

var knownStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {},
	"DE": {}, "FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {}, "IN": {},
	"IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {}, "MA": {},
	"MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {},
	"NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {},
	"OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {}, "TN": {},
	"TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {},
	"WY": {},
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLeadPriority_MarginBucket(t *testing.T) {
	// 140% wholesale margin lands in the top bucket.
	result := CalculateLeadPriority(PriorityInput{
		SellerPrice:   50000,
		NovationPrice: 120000,
	})

	require.Contains(t, result.Breakdown, "margin")
	assert.Equal(t, 40, result.Breakdown["margin"].Points)
}

func TestCalculateLeadPriority_UltraHot(t *testing.T) {
	result := CalculateLeadPriority(PriorityInput{
		SellerPrice:      50000,
		NovationPrice:    120000,
		Motivation:       "foreclosure",
		Timeline:         "asap",
		Condition:        "fixer-upper",
		Location:         "NV",
		CashOfferClaimed: true,
	})

	assert.GreaterOrEqual(t, result.Score, 80)
	assert.Equal(t, LevelUltraHot, result.Level)
	assert.Contains(t, result.Recommendations, "Call within 5 minutes")
}

func TestCalculateLeadPriority_ZeroSellerPriceNotScored(t *testing.T) {
	result := CalculateLeadPriority(PriorityInput{
		SellerPrice:   0,
		NovationPrice: 120000,
	})

	require.Contains(t, result.Breakdown, "margin")
	assert.Equal(t, 0, result.Breakdown["margin"].Points)
	assert.Contains(t, result.Breakdown["margin"].Rationale, "not scored")
}

func TestCalculateLeadPriority_DefaultsForMissingFields(t *testing.T) {
	result := CalculateLeadPriority(PriorityInput{})

	assert.Equal(t, defaultMotivationPoints, result.Breakdown["motivation"].Points)
	assert.Equal(t, defaultTimelinePoints, result.Breakdown["timeline"].Points)
	assert.Equal(t, defaultConditionPoints, result.Breakdown["condition"].Points)
	assert.Equal(t, LevelCold, result.Level)
}

func TestLevelBands(t *testing.T) {
	tests := []struct {
		score int
		level string
	}{
		{85, LevelUltraHot},
		{80, LevelUltraHot},
		{70, LevelHot},
		{55, LevelWarm},
		{40, LevelLukewarm},
		{10, LevelCold},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, levelFor(tt.score), "score %d", tt.score)
	}
}

func TestStateFromLocation(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"NV", "NV"},
		{"nv", "NV"},
		{"123 Main Street, Las Vegas, NV 89101", "NV"},
		{"456 Oak Ave, Phoenix, AZ", "AZ"},
		{"", ""},
		{"ZZ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StateFromLocation(tt.location), "location %q", tt.location)
	}
}

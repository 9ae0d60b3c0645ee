package funnel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifthomeoffer/cashoffer-platform/internal/funnel/progress"
	"github.com/swifthomeoffer/cashoffer-platform/internal/leads"
)

type capturingForwarder struct {
	payloads chan map[string]any
}

func (f *capturingForwarder) SubmitLead(ctx context.Context, payload map[string]any) error {
	f.payloads <- payload
	return nil
}

func TestLeadSubmitter_PersistsAndForwards(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	forwarder := &capturingForwarder{payloads: make(chan map[string]any, 1)}
	sub := NewLeadSubmitter(repo, forwarder, nil, nil)

	snap := &progress.Snapshot{
		ID:       "sess-1",
		UserType: "owner",
		Answers: map[string]any{
			"address":           "123 Main St, Las Vegas, NV",
			"name":              "Jane Seller",
			"email":             "jane@example.com",
			"phone":             "(702) 555-0123",
			"timeline":          "asap",
			"propertyCondition": "fixer-upper",
			"motivation":        "foreclosure",
			"estimatedValue":    float64(320000),
			"sellerPrice":       "250000",
			"propertyIssues":    []any{"mold", "roof-replacement"},
			"source":            "landing-page",
		},
	}

	result := sub.Submit(context.Background(), snap)
	assert.False(t, result.Degraded)
	assert.Greater(t, result.CashOfferRange.Primary, 0.0)

	stored, err := repo.List(context.Background(), leads.ListLeadsFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "+17025550123", stored[0].Phone)
	assert.Equal(t, "landing-page", stored[0].Source)
	assert.Equal(t, []string{"mold", "roof-replacement"}, stored[0].PropertyIssues)

	select {
	case payload := <-forwarder.payloads:
		assert.Equal(t, "Jane Seller", payload["name"])
		assert.Equal(t, stored[0].ID, payload["leadId"])
		assert.Equal(t, "mold,roof-replacement", payload["propertyIssues"])
	case <-time.After(time.Second):
		t.Fatal("CRM webhook was never invoked")
	}
}

func TestLeadSubmitter_NilForwarder(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	sub := NewLeadSubmitter(repo, nil, nil, nil)

	snap := &progress.Snapshot{
		ID: "sess-1",
		Answers: map[string]any{
			"address": "123 Main St",
			"name":    "Jane Seller",
			"email":   "jane@example.com",
		},
	}

	result := sub.Submit(context.Background(), snap)
	assert.NotZero(t, result.CashOfferRange.Primary)
}

func TestLeadSubmitter_PersistenceFailureStillReturnsOffer(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	sub := NewLeadSubmitter(repo, nil, nil, nil)

	// No name and no contact info: Validate rejects, the offer survives.
	snap := &progress.Snapshot{
		ID:      "sess-1",
		Answers: map[string]any{"address": "123 Main St", "timeline": "asap"},
	}

	result := sub.Submit(context.Background(), snap)
	assert.NotZero(t, result.CashOfferRange.Primary)

	stored, err := repo.List(context.Background(), leads.ListLeadsFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

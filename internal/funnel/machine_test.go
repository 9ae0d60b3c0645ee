package funnel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifthomeoffer/cashoffer-platform/internal/funnel/progress"
	"github.com/swifthomeoffer/cashoffer-platform/internal/offer"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

type countingSubmitter struct {
	calls atomic.Int64
}

func (s *countingSubmitter) Submit(ctx context.Context, snap *progress.Snapshot) offer.Result {
	s.calls.Add(1)
	return offer.Result{
		QualificationScore: 85,
		Tier:               "bonus",
		CashOfferRange:     offer.Range{Low: 190000, Primary: 200000, High: 210000},
		NextSteps:          []string{"Book a call to lock in your offer"},
	}
}

func newTestMachine(t *testing.T, steps []Step) (*Machine, *countingSubmitter) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sub := &countingSubmitter{}
	store := progress.NewStore(client, 0, logging.Default())
	return NewMachine(steps, store, sub, logging.Default(), nil), sub
}

func TestMachineWalkthrough_SubmitsExactlyOnce(t *testing.T) {
	m, sub := newTestMachine(t, DefaultSteps())
	ctx := context.Background()

	view, err := m.Start(ctx, StartRequest{Address: "123 Main St, Las Vegas, NV"})
	require.NoError(t, err)
	assert.Equal(t, "user-type", view.StepID, "address prefill skips the address step")

	id := view.SessionID
	advance := func(answers map[string]any) View {
		t.Helper()
		v, err := m.Next(ctx, id, answers)
		require.NoError(t, err)
		return v
	}

	advance(map[string]any{"userType": "owner"})
	advance(map[string]any{"beds": float64(3), "baths": float64(2)})
	advance(map[string]any{"propertyCondition": "fixer-upper"})
	view = advance(map[string]any{"propertyIssues": []any{"roof-replacement"}})
	assert.Equal(t, "timeline", view.StepID, "owner sessions skip the HOA step")

	advance(map[string]any{"timeline": "asap"})
	advance(map[string]any{"motivation": "relocation"})
	advance(map[string]any{"sellerPrice": float64(250000), "estimatedValue": float64(320000)})

	view = advance(map[string]any{
		"name":  "Jane Seller",
		"email": "jane@example.com",
		"phone": "(702) 555-0123",
	})
	assert.True(t, view.Submitted)
	require.NotNil(t, view.Qualification)
	assert.True(t, view.Qualification.Qualified)
	assert.Equal(t, int64(1), sub.calls.Load())

	// Rapid repeat clicks past the end must not resubmit.
	for i := 0; i < 3; i++ {
		view = advance(nil)
		assert.True(t, view.Submitted)
	}
	assert.Equal(t, int64(1), sub.calls.Load())
}

func TestMachineSubmit_ConcurrentNextSubmitsOnce(t *testing.T) {
	steps := []Step{
		{ID: "contact", Title: "Contact", Fields: []Field{
			{Name: "name", Kind: FieldText, Required: true},
		}},
	}
	m, sub := newTestMachine(t, steps)
	ctx := context.Background()

	view, err := m.Start(ctx, StartRequest{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Next(ctx, view.SessionID, map[string]any{"name": "Jane"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), sub.calls.Load())
}

func TestMachineNext_ValidationFailure(t *testing.T) {
	m, _ := newTestMachine(t, DefaultSteps())
	ctx := context.Background()

	view, err := m.Start(ctx, StartRequest{})
	require.NoError(t, err)

	_, err = m.Next(ctx, view.SessionID, nil)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"address"}, valErr.Fields)

	// Bad email and phone on the contact step are rejected field by field.
	_, err = m.Next(ctx, view.SessionID, map[string]any{"address": "123 Main St"})
	require.NoError(t, err)
	contactStep := DefaultSteps()[len(DefaultSteps())-1]
	invalid := validateStep(contactStep, map[string]any{
		"name":  "Jane",
		"email": "not-an-email",
		"phone": "123",
	})
	assert.ElementsMatch(t, []string{"email", "phone"}, invalid)
}

func TestMachineHOAStepVisibility(t *testing.T) {
	m, _ := newTestMachine(t, DefaultSteps())
	ctx := context.Background()

	view, err := m.Start(ctx, StartRequest{Address: "9 Elm St, Phoenix, AZ", UserType: "hoa"})
	require.NoError(t, err)
	id := view.SessionID

	advance := func(answers map[string]any) View {
		t.Helper()
		v, err := m.Next(ctx, id, answers)
		require.NoError(t, err)
		return v
	}

	advance(map[string]any{"userType": "hoa"})
	advance(map[string]any{"beds": float64(2), "baths": float64(1)})
	advance(map[string]any{"propertyCondition": "good"})
	view = advance(nil)
	assert.Equal(t, "hoa-details", view.StepID)

	view = advance(map[string]any{"hoaName": "Sunset Ridge HOA"})
	assert.Equal(t, "timeline", view.StepID)
}

func TestMachineBack_SkipsHiddenSteps(t *testing.T) {
	m, _ := newTestMachine(t, DefaultSteps())
	ctx := context.Background()

	view, err := m.Start(ctx, StartRequest{Address: "123 Main St"})
	require.NoError(t, err)
	id := view.SessionID

	_, err = m.Next(ctx, id, map[string]any{"userType": "owner"})
	require.NoError(t, err)
	_, err = m.Next(ctx, id, map[string]any{"beds": float64(3), "baths": float64(2)})
	require.NoError(t, err)
	_, err = m.Next(ctx, id, map[string]any{"propertyCondition": "good"})
	require.NoError(t, err)
	view, err = m.Next(ctx, id, nil)
	require.NoError(t, err)
	require.Equal(t, "timeline", view.StepID)

	// Back from timeline lands on property-issues, not the hidden HOA step.
	view, err = m.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "property-issues", view.StepID)
}

func TestMachineAutoAdvance(t *testing.T) {
	steps := []Step{
		{ID: "pick", Title: "Pick one", AutoAdvanceAfter: 25 * time.Millisecond, Fields: []Field{
			{Name: "choice", Kind: FieldChoice, Required: true, Options: []string{"a", "b"}},
		}},
		{ID: "done", Title: "Done"},
	}
	m, _ := newTestMachine(t, steps)
	ctx := context.Background()

	view, err := m.Start(ctx, StartRequest{})
	require.NoError(t, err)
	id := view.SessionID

	view, err = m.Select(ctx, id, map[string]any{"choice": "a"})
	require.NoError(t, err)
	assert.Equal(t, "pick", view.StepID)
	assert.Equal(t, int64(25), view.AutoAdvanceMS)

	require.Eventually(t, func() bool {
		v, err := m.Get(ctx, id)
		return err == nil && v.StepID == "done"
	}, time.Second, 10*time.Millisecond)
}

func TestMachineAutoAdvance_CanceledByUserAction(t *testing.T) {
	steps := []Step{
		{ID: "pick", Title: "Pick one", AutoAdvanceAfter: 50 * time.Millisecond, Fields: []Field{
			{Name: "choice", Kind: FieldChoice, Required: true, Options: []string{"a", "b"}},
		}},
		{ID: "done", Title: "Done"},
	}
	m, _ := newTestMachine(t, steps)
	ctx := context.Background()

	view, err := m.Start(ctx, StartRequest{})
	require.NoError(t, err)
	id := view.SessionID

	_, err = m.Select(ctx, id, map[string]any{"choice": "a"})
	require.NoError(t, err)

	// Back is a user action; it cancels the pending timer even though there
	// is no earlier step to go to.
	_, err = m.Back(ctx, id)
	require.NoError(t, err)

	time.Sleep(150 * time.Millisecond)
	view, err = m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "pick", view.StepID)
}

func TestMachineResume_AddressOnlyRejected(t *testing.T) {
	m, _ := newTestMachine(t, DefaultSteps())
	ctx := context.Background()

	view, err := m.Start(ctx, StartRequest{Address: "123 Main St"})
	require.NoError(t, err)

	_, err = m.Resume(ctx, view.SessionID)
	assert.ErrorIs(t, err, progress.ErrNoRealProgress)
}

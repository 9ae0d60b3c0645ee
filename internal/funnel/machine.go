// Package funnel drives the multi-step question flow that turns an
// anonymous visitor into a captured lead. Navigation is linear with
// conditional skips; answers accumulate into a flat record that is
// submitted exactly once when the last visible step completes.
package funnel

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swifthomeoffer/cashoffer-platform/internal/funnel/progress"
	"github.com/swifthomeoffer/cashoffer-platform/internal/observability/metrics"
	"github.com/swifthomeoffer/cashoffer-platform/internal/offer"
	"github.com/swifthomeoffer/cashoffer-platform/internal/scoring"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/phone"
)

// Submitter delivers a completed funnel record onward. Implementations
// must not block lead capture on third-party failures.
type Submitter interface {
	Submit(ctx context.Context, snap *progress.Snapshot) offer.Result
}

// ValidationError reports the fields that failed step validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "funnel: invalid fields: " + strings.Join(e.Fields, ", ")
}

// Machine walks sessions through the step sequence.
type Machine struct {
	steps     []Step
	store     *progress.Store
	submitter Submitter
	logger    *logging.Logger
	metrics   *metrics.FunnelMetrics

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewMachine creates a funnel machine over the given steps.
func NewMachine(steps []Step, store *progress.Store, submitter Submitter, logger *logging.Logger, m *metrics.FunnelMetrics) *Machine {
	if len(steps) == 0 {
		panic("funnel: at least one step required")
	}
	if store == nil {
		panic("funnel: progress store required")
	}
	if submitter == nil {
		panic("funnel: submitter required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Machine{
		steps:     steps,
		store:     store,
		submitter: submitter,
		logger:    logger,
		metrics:   m,
		timers:    make(map[string]*time.Timer),
	}
}

// StartRequest opens a new session. A prefilled address (from a URL
// parameter or an earlier visit) skips the address step.
type StartRequest struct {
	Address  string `json:"address"`
	UserType string `json:"userType"`
	Source   string `json:"source"`
}

// Start creates a session and returns the first view.
func (m *Machine) Start(ctx context.Context, req StartRequest) (View, error) {
	snap := &progress.Snapshot{
		ID:      uuid.NewString(),
		Answers: map[string]any{},
	}
	if req.Source != "" {
		snap.Answers["source"] = req.Source
	}
	if req.UserType != "" {
		snap.UserType = string(ParseUserType(req.UserType))
		snap.Answers["userType"] = snap.UserType
	}
	if addr := strings.TrimSpace(req.Address); addr != "" && len(m.steps) > 1 {
		snap.Answers["address"] = addr
		snap.CurrentStep = 1
	}

	if err := m.store.Save(ctx, snap); err != nil {
		return View{}, err
	}
	m.metrics.ObserveStep(m.steps[snap.CurrentStep].ID, "start")
	return m.view(snap), nil
}

// Get returns the current view of a session.
func (m *Machine) Get(ctx context.Context, sessionID string) (View, error) {
	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return m.view(snap), nil
}

// Resume returns the session view only if it holds real progress.
func (m *Machine) Resume(ctx context.Context, sessionID string) (View, error) {
	snap, err := m.store.LoadForResume(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return m.view(snap), nil
}

// Next validates the current step against the merged answers and advances
// to the next visible step. Past the last visible step it submits the
// record; repeated calls after submission are no-ops.
func (m *Machine) Next(ctx context.Context, sessionID string, answers map[string]any) (View, error) {
	m.cancelAutoAdvance(sessionID)
	return m.advance(ctx, sessionID, answers)
}

func (m *Machine) advance(ctx context.Context, sessionID string, answers map[string]any) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if snap.Submitted {
		return m.view(snap), nil
	}

	mergeAnswers(snap, answers)

	step := m.steps[snap.CurrentStep]
	if invalid := validateStep(step, snap.Answers); len(invalid) > 0 {
		return View{}, &ValidationError{Fields: invalid}
	}

	next := m.nextVisible(snap.CurrentStep, snap.Answers)
	if next < 0 {
		return m.submit(ctx, snap)
	}

	snap.CurrentStep = next
	if err := m.store.Save(ctx, snap); err != nil {
		return View{}, err
	}
	m.metrics.ObserveStep(m.steps[next].ID, "next")
	return m.view(snap), nil
}

// Back moves to the previous visible step without validation.
func (m *Machine) Back(ctx context.Context, sessionID string) (View, error) {
	m.cancelAutoAdvance(sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if snap.Submitted {
		return m.view(snap), nil
	}

	prev := m.prevVisible(snap.CurrentStep, snap.Answers)
	if prev >= 0 {
		snap.CurrentStep = prev
		if err := m.store.Save(ctx, snap); err != nil {
			return View{}, err
		}
		m.metrics.ObserveStep(m.steps[prev].ID, "back")
	}
	return m.view(snap), nil
}

// Select records answers without advancing. On steps with a timed
// transition it schedules the auto-advance; any later Next, Back, or
// Select on the session cancels the pending timer first.
func (m *Machine) Select(ctx context.Context, sessionID string, answers map[string]any) (View, error) {
	m.cancelAutoAdvance(sessionID)

	m.mu.Lock()
	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		m.mu.Unlock()
		return View{}, err
	}
	if snap.Submitted {
		m.mu.Unlock()
		return m.view(snap), nil
	}

	mergeAnswers(snap, answers)
	if err := m.store.Save(ctx, snap); err != nil {
		m.mu.Unlock()
		return View{}, err
	}

	step := m.steps[snap.CurrentStep]
	view := m.view(snap)
	m.mu.Unlock()

	if step.AutoAdvanceAfter > 0 && len(validateStep(step, snap.Answers)) == 0 {
		m.scheduleAutoAdvance(sessionID, step.AutoAdvanceAfter)
	}
	return view, nil
}

func (m *Machine) scheduleAutoAdvance(sessionID string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.timers[sessionID]; ok {
		t.Stop()
	}
	m.timers[sessionID] = time.AfterFunc(delay, func() {
		m.mu.Lock()
		delete(m.timers, sessionID)
		m.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := m.advance(ctx, sessionID, nil); err != nil {
			m.logger.Warn("auto-advance failed", "session_id", sessionID, "error", err)
		}
	})
}

func (m *Machine) cancelAutoAdvance(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.timers[sessionID]; ok {
		t.Stop()
		delete(m.timers, sessionID)
	}
}

// submit runs exactly once per session: the Submitted flag is persisted
// before the view is returned, so rapid duplicate Next calls cannot
// resubmit. Caller holds m.mu.
func (m *Machine) submit(ctx context.Context, snap *progress.Snapshot) (View, error) {
	snap.Submitted = true
	result := m.submitter.Submit(ctx, snap)
	snap.Qualification = &result

	if err := m.store.Save(ctx, snap); err != nil {
		return View{}, err
	}
	m.metrics.ObserveSubmission("ok")
	m.logger.Info("funnel submitted",
		"session_id", snap.ID,
		"qualification_score", result.QualificationScore,
		"degraded", result.Degraded,
	)
	return m.view(snap), nil
}

func (m *Machine) nextVisible(from int, answers map[string]any) int {
	for i := from + 1; i < len(m.steps); i++ {
		if m.steps[i].Visible(answers) {
			return i
		}
	}
	return -1
}

func (m *Machine) prevVisible(from int, answers map[string]any) int {
	for i := from - 1; i >= 0; i-- {
		if m.steps[i].Visible(answers) {
			return i
		}
	}
	return -1
}

func mergeAnswers(snap *progress.Snapshot, answers map[string]any) {
	if snap.Answers == nil {
		snap.Answers = map[string]any{}
	}
	for k, v := range answers {
		snap.Answers[k] = v
	}
	if ut, ok := snap.Answers["userType"].(string); ok && ut != "" {
		snap.UserType = string(ParseUserType(ut))
	}
}

// validateStep checks required-field presence plus native format checks
// for email and phone fields.
func validateStep(step Step, answers map[string]any) []string {
	var invalid []string
	for _, field := range step.Fields {
		raw, present := answers[field.Name]
		if !present || isEmptyAnswer(raw) {
			if field.Required {
				invalid = append(invalid, field.Name)
			}
			continue
		}
		switch field.Kind {
		case FieldEmail:
			s, _ := raw.(string)
			if !strings.Contains(s, "@") || strings.HasPrefix(s, "@") || strings.HasSuffix(s, "@") {
				invalid = append(invalid, field.Name)
			}
		case FieldPhone:
			s, _ := raw.(string)
			if !phone.IsValid(s) {
				invalid = append(invalid, field.Name)
			}
		}
	}
	return invalid
}

func isEmptyAnswer(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	default:
		return false
	}
}

// View is what the client renders for the session's current state.
type View struct {
	SessionID     string             `json:"sessionId"`
	StepIndex     int                `json:"stepIndex"`
	StepID        string             `json:"stepId"`
	Title         string             `json:"title"`
	Fields        []Field            `json:"fields,omitempty"`
	TotalSteps    int                `json:"totalSteps"`
	AutoAdvanceMS int64              `json:"autoAdvanceMs,omitempty"`
	Submitted     bool               `json:"submitted"`
	Qualification *QualificationView `json:"qualification,omitempty"`
}

// QualificationView is the post-submission result screen.
type QualificationView struct {
	Qualified      bool              `json:"qualified"`
	Score          int               `json:"score"`
	Tier           string            `json:"tier"`
	MarketValue    offer.MarketValue `json:"marketValue"`
	CashOfferRange offer.Range       `json:"cashOfferRange"`
	NextSteps      []string          `json:"nextSteps"`
	Degraded       bool              `json:"degraded"`
}

func (m *Machine) view(snap *progress.Snapshot) View {
	v := View{
		SessionID:  snap.ID,
		StepIndex:  snap.CurrentStep,
		TotalSteps: m.countVisible(snap.Answers),
		Submitted:  snap.Submitted,
	}

	if snap.Submitted {
		v.StepID = "qualification"
		v.Title = "Your cash offer"
		if q := snap.Qualification; q != nil {
			v.Qualification = &QualificationView{
				Qualified:      q.QualificationScore >= scoring.QualificationThreshold,
				Score:          q.QualificationScore,
				Tier:           q.Tier,
				MarketValue:    q.MarketValue,
				CashOfferRange: q.CashOfferRange,
				NextSteps:      q.NextSteps,
				Degraded:       q.Degraded,
			}
		}
		return v
	}

	step := m.steps[snap.CurrentStep]
	v.StepID = step.ID
	v.Title = step.TitleFor(ParseUserType(snap.UserType))
	v.Fields = step.Fields
	if step.AutoAdvanceAfter > 0 {
		v.AutoAdvanceMS = step.AutoAdvanceAfter.Milliseconds()
	}
	return v
}

func (m *Machine) countVisible(answers map[string]any) int {
	count := 0
	for _, s := range m.steps {
		if s.Visible(answers) {
			count++
		}
	}
	return count
}

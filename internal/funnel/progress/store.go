// Package progress persists funnel session snapshots in Redis so a seller
// can close the tab and pick up where they left off within a day.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swifthomeoffer/cashoffer-platform/internal/offer"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// DefaultTTL is how long a snapshot stays resumable.
const DefaultTTL = 24 * time.Hour

var (
	// ErrNotFound is returned when no snapshot exists for a session.
	ErrNotFound = errors.New("progress: snapshot not found")

	// ErrNoRealProgress is returned when a snapshot exists but holds
	// nothing worth resuming; the snapshot is cleared as a side effect.
	ErrNoRealProgress = errors.New("progress: no real progress to resume")
)

// Snapshot is the persisted funnel session state.
type Snapshot struct {
	ID            string         `json:"id"`
	CurrentStep   int            `json:"currentStep"`
	UserType      string         `json:"userType"`
	Answers       map[string]any `json:"answers"`
	Submitted     bool           `json:"submitted"`
	Qualification *offer.Result  `json:"qualification,omitempty"`
	SavedAt       time.Time      `json:"savedAt"`
}

// Address returns the property address answer, if any.
func (s *Snapshot) Address() string {
	if s.Answers == nil {
		return ""
	}
	addr, _ := s.Answers["address"].(string)
	return strings.TrimSpace(addr)
}

// Fields beyond the address that indicate the seller actually engaged with
// the funnel rather than bouncing after the first input.
var richFields = []string{
	"timeline", "propertyCondition", "motivation", "beds", "sqft",
	"name", "email", "phone", "sellerPrice",
}

// HasRealProgress reports whether the snapshot is worth a resume prompt:
// an address plus either advancement past the first steps or at least one
// richer answer. Address-only snapshots are noise.
func (s *Snapshot) HasRealProgress() bool {
	if s.Address() == "" {
		return false
	}
	if s.CurrentStep > 1 {
		return true
	}
	for _, field := range richFields {
		if v, ok := s.Answers[field]; ok {
			if str, isStr := v.(string); isStr && strings.TrimSpace(str) == "" {
				continue
			}
			return true
		}
	}
	return false
}

// Store keeps snapshots in Redis under a per-session key.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewStore creates a snapshot store. A zero ttl uses DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Store {
	if client == nil {
		panic("progress: redis client required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{redis: client, ttl: ttl, logger: logger}
}

func (s *Store) key(id string) string {
	return "funnel:session:" + id
}

// Save writes a timestamped snapshot with the store's TTL.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	snap.SavedAt = time.Now().UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("progress: marshal snapshot: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(snap.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("progress: save snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot back. Snapshots older than the TTL are cleared and
// reported as missing; the Redis key TTL normally reaps them first, but the
// age check also covers stores with persistence misconfigured.
func (s *Store) Load(ctx context.Context, id string) (*Snapshot, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("progress: load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("progress: unmarshal snapshot: %w", err)
	}
	if time.Since(snap.SavedAt) > s.ttl {
		s.Clear(ctx, id)
		return nil, ErrNotFound
	}
	return &snap, nil
}

// Clear removes a snapshot.
func (s *Store) Clear(ctx context.Context, id string) {
	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		s.logger.Warn("progress clear failed", "session_id", id, "error", err)
	}
}

// LoadForResume loads a snapshot only if it holds real progress.
// Address-only snapshots are auto-cleared so repeated resume checks stay
// quiet instead of re-prompting on noise.
func (s *Store) LoadForResume(ctx context.Context, id string) (*Snapshot, error) {
	snap, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !snap.HasRealProgress() {
		s.Clear(ctx, id)
		return nil, ErrNoRealProgress
	}
	return snap, nil
}

// Package slots tracks the monthly "cash offers remaining" scarcity counter.
// One record per UTC calendar month lives in Redis; the decrement is a Lua
// script so concurrent requests cannot lose updates.
package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swifthomeoffer/cashoffer-platform/internal/observability/metrics"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// Keys linger two months past their own month before Redis reaps them.
const keyTTL = 62 * 24 * time.Hour

// decrementScript initializes the month lazily and decrements only while
// the counter is positive, all in one atomic step.
var decrementScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
  current = tonumber(ARGV[1])
  redis.call('SET', KEYS[1], current, 'EX', tonumber(ARGV[2]))
end
current = tonumber(current)
local decremented = 0
if current > 0 then
  current = redis.call('DECR', KEYS[1])
  decremented = 1
end
return {current, decremented}
`)

// State is the counter for one calendar month.
type State struct {
	MonthKey  string `json:"monthKey"`
	Remaining int    `json:"remaining"`
}

// Counter is the Redis-backed monthly slot counter.
type Counter struct {
	redis      *redis.Client
	allocation int
	logger     *logging.Logger
	metrics    *metrics.FunnelMetrics
	now        func() time.Time
}

// NewCounter creates a counter with the per-month allocation.
func NewCounter(client *redis.Client, allocation int, logger *logging.Logger, m *metrics.FunnelMetrics) *Counter {
	if client == nil {
		panic("slots: redis client required")
	}
	if allocation <= 0 {
		allocation = 10
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Counter{
		redis:      client,
		allocation: allocation,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// MonthKey formats the UTC calendar month a time falls in.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func (c *Counter) key(monthKey string) string {
	return "slots:" + monthKey
}

// Read returns the current month's state, initializing it to the full
// allocation on first read of a new month.
func (c *Counter) Read(ctx context.Context) (State, error) {
	monthKey := MonthKey(c.now())
	key := c.key(monthKey)

	if err := c.redis.SetNX(ctx, key, c.allocation, keyTTL).Err(); err != nil {
		return State{}, fmt.Errorf("slots: init month %s: %w", monthKey, err)
	}
	remaining, err := c.redis.Get(ctx, key).Int()
	if err != nil {
		return State{}, fmt.Errorf("slots: read month %s: %w", monthKey, err)
	}
	return State{MonthKey: monthKey, Remaining: remaining}, nil
}

// Decrement atomically takes one slot if any remain and returns the new
// state. At zero it returns the unchanged state.
func (c *Counter) Decrement(ctx context.Context) (State, error) {
	monthKey := MonthKey(c.now())
	key := c.key(monthKey)

	values, err := decrementScript.Run(ctx, c.redis, []string{key},
		c.allocation, int(keyTTL.Seconds())).Int64Slice()
	if err != nil {
		c.metrics.ObserveSlotDecrement("error")
		return State{}, fmt.Errorf("slots: decrement month %s: %w", monthKey, err)
	}
	if len(values) != 2 {
		c.metrics.ObserveSlotDecrement("error")
		return State{}, fmt.Errorf("slots: unexpected script reply for month %s", monthKey)
	}

	remaining, decremented := int(values[0]), values[1] == 1
	if decremented {
		c.metrics.ObserveSlotDecrement("decremented")
	} else {
		c.metrics.ObserveSlotDecrement("exhausted")
	}
	return State{MonthKey: monthKey, Remaining: remaining}, nil
}

package property

import (
	"context"
	"errors"

	"github.com/swifthomeoffer/cashoffer-platform/internal/observability/metrics"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

// ErrAllProvidersFailed is returned when every provider in the chain errored.
var ErrAllProvidersFailed = errors.New("property: all providers failed")

// Service tries each provider in order and returns the first success.
type Service struct {
	providers []Provider
	logger    *logging.Logger
	metrics   *metrics.FunnelMetrics
}

// NewService creates a lookup service over an ordered provider chain.
func NewService(providers []Provider, logger *logging.Logger, m *metrics.FunnelMetrics) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{providers: providers, logger: logger, metrics: m}
}

// Lookup resolves property data for an address. Provider errors are logged
// and the next provider is tried; there is no retry beyond the chain.
func (s *Service) Lookup(ctx context.Context, address string) (*Data, error) {
	for _, p := range s.providers {
		data, err := p.Lookup(ctx, address)
		if err != nil {
			s.metrics.ObservePropertyLookup(p.Name(), "error")
			s.logger.Warn("property provider failed", "provider", p.Name(), "error", err)
			continue
		}
		s.metrics.ObservePropertyLookup(p.Name(), "ok")
		return data, nil
	}
	return nil, ErrAllProvidersFailed
}

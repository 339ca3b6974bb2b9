package cache

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/factory"
	"github.com/vibast-solutions/ms-go-pricing/app/metrics"
)

// Policy applies the TTL on top of a Store. Storage failures never escape
// Read: they are logged and reported as a miss.
type Policy struct {
	store   Store
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
	logger  logrus.FieldLogger
}

type PolicyOption func(*Policy)

func WithClock(now func() time.Time) PolicyOption {
	return func(p *Policy) {
		p.now = now
	}
}

func WithMetrics(m *metrics.Metrics) PolicyOption {
	return func(p *Policy) {
		p.metrics = m
	}
}

func NewPolicy(store Store, ttl time.Duration, opts ...PolicyOption) *Policy {
	p := &Policy{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: factory.NewModuleLogger("pricing-cache"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Policy) TTL() time.Duration {
	return p.ttl
}

// Read returns the cached entry and whether it is still fresh. Expired and
// corrupt entries are evicted on detection and reported as absent.
func (p *Policy) Read(ctx context.Context) (*entity.CacheData, bool) {
	data, err := p.store.Get(ctx)
	if err != nil {
		p.metrics.ObserveCacheRead(metrics.CacheOutcomeError)
		p.logger.WithError(err).Warn("Pricing cache read failed")
		if errors.Is(err, ErrCorruptPayload) {
			p.evict(ctx, "corrupt")
		}
		return nil, false
	}
	if data == nil {
		p.metrics.ObserveCacheRead(metrics.CacheOutcomeMiss)
		return nil, false
	}
	if data.Expired(p.now(), p.ttl) {
		p.metrics.ObserveCacheRead(metrics.CacheOutcomeExpired)
		p.evict(ctx, "expired")
		return nil, false
	}

	p.metrics.ObserveCacheRead(metrics.CacheOutcomeHit)
	return data, true
}

func (p *Policy) Write(ctx context.Context, matrix entity.PricingMatrix) error {
	return p.store.Set(ctx, entity.CacheData{
		Matrix:    matrix,
		Timestamp: p.now().UnixMilli(),
	})
}

func (p *Policy) Invalidate(ctx context.Context) error {
	return p.store.Remove(ctx)
}

func (p *Policy) evict(ctx context.Context, reason string) {
	if err := p.store.Remove(ctx); err != nil {
		p.logger.WithError(err).WithField("reason", reason).Warn("Pricing cache eviction failed")
		return
	}
	p.logger.WithField("reason", reason).Debug("Pricing cache entry evicted")
}

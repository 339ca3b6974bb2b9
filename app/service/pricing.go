package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/factory"
	"github.com/vibast-solutions/ms-go-pricing/app/metrics"
	"golang.org/x/sync/singleflight"
)

const matrixFlightKey = "pricing-matrix"

var errEmptyMatrix = errors.New("upstream returned an empty pricing matrix")

type pricingFetcher interface {
	FetchMatrix(ctx context.Context) (entity.PricingMatrix, error)
	FetchRegion(ctx context.Context, region entity.Region) []entity.PricingEntry
}

type cachePolicy interface {
	Read(ctx context.Context) (*entity.CacheData, bool)
	Write(ctx context.Context, matrix entity.PricingMatrix) error
	Invalidate(ctx context.Context) error
}

type PricingState struct {
	Loading         bool
	Error           string
	HasData         bool
	ServedFromCache bool
	UpdatedAt       time.Time
}

// PricingService holds the resolved pricing matrix. It is built once at
// startup and shared by every consumer.
//
// Start serves a fresh cached matrix immediately and always revalidates in the
// background. Fetch completions are applied in issue order: a completion older
// than the matrix already applied is dropped.
type PricingService struct {
	fetcher pricingFetcher
	cache   cachePolicy
	metrics *metrics.Metrics
	logger  logrus.FieldLogger
	now     func() time.Time

	lifecycle context.Context
	cancel    context.CancelFunc
	flights   singleflight.Group
	wg        sync.WaitGroup
	ready     chan struct{}
	readyOnce sync.Once

	mu              sync.RWMutex
	matrix          entity.PricingMatrix
	entries         map[entity.Region][]entity.PricingEntry
	loading         bool
	errMsg          string
	servedFromCache bool
	updatedAt       time.Time
	issuedSeq       uint64
	appliedSeq      uint64
	closed          bool
}

func NewPricingService(fetcher pricingFetcher, cache cachePolicy, m *metrics.Metrics) *PricingService {
	lifecycle, cancel := context.WithCancel(context.Background())
	return &PricingService{
		fetcher:   fetcher,
		cache:     cache,
		metrics:   m,
		logger:    factory.NewModuleLogger("pricing-service"),
		now:       time.Now,
		lifecycle: lifecycle,
		cancel:    cancel,
		entries:   map[entity.Region][]entity.PricingEntry{},
		ready:     make(chan struct{}),
		loading:   true,
	}
}

// Start reads the cache and kicks off a background revalidation. It does not
// wait for the network.
func (s *PricingService) Start(ctx context.Context) {
	if data, fresh := s.cache.Read(ctx); fresh {
		s.mu.Lock()
		if s.appliedSeq == 0 {
			s.applyLocked(data.Matrix, data.CachedAt())
			s.servedFromCache = true
			s.loading = false
			s.markReadyLocked()
		}
		s.mu.Unlock()
		s.logger.WithField("cached_at", data.CachedAt().Format(time.RFC3339)).Info("Serving cached pricing while revalidating")
	}

	s.Revalidate()
}

// Revalidate fetches the matrix in the background. Concurrent calls share one
// upstream request.
func (s *PricingService) Revalidate() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if err := s.fetch(s.lifecycle, false); err != nil {
			s.logger.WithError(err).Debug("Background pricing revalidation finished with error")
		}
	}()
}

// RefreshPricing clears the persisted cache and fetches the matrix again,
// regardless of any fetch already in flight.
func (s *PricingService) RefreshPricing(ctx context.Context) error {
	if s.isClosed() {
		return ErrServiceClosed
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to clear pricing cache")
	}
	return s.fetch(ctx, true)
}

func (s *PricingService) fetch(ctx context.Context, forceNew bool) error {
	if forceNew {
		s.flights.Forget(matrixFlightKey)
	}
	ch := s.flights.DoChan(matrixFlightKey, func() (interface{}, error) {
		if !s.track() {
			return nil, ErrServiceClosed
		}
		defer s.wg.Done()
		return nil, s.fetchAndApply(s.lifecycle)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *PricingService) fetchAndApply(ctx context.Context) error {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()

	matrix, err := s.fetcher.FetchMatrix(ctx)
	if err == nil && matrix == nil {
		err = errEmptyMatrix
	}

	s.mu.Lock()
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		s.metrics.ObserveMatrixFetch(metrics.FetchOutcomeDropped)
		return ErrServiceClosed
	}

	if err != nil {
		s.loading = false
		s.markReadyLocked()
		hasData := s.matrix != nil
		if !hasData {
			s.errMsg = LoadErrorMessage
		}
		s.mu.Unlock()

		if hasData {
			s.metrics.ObserveMatrixFetch(metrics.FetchOutcomeDegraded)
			s.logger.WithError(err).Warn("Pricing fetch failed, keeping previous pricing")
		} else {
			s.metrics.ObserveMatrixFetch(metrics.FetchOutcomeFailure)
			s.logger.WithError(err).Error("Pricing fetch failed with no cached pricing")
		}
		return fmt.Errorf("%w: %v", ErrPricingUnavailable, err)
	}

	if seq < s.appliedSeq {
		s.mu.Unlock()
		s.metrics.ObserveMatrixFetch(metrics.FetchOutcomeDropped)
		return nil
	}
	s.appliedSeq = seq
	s.applyLocked(matrix, s.now().UTC())
	s.servedFromCache = false
	s.loading = false
	s.markReadyLocked()
	s.errMsg = ""
	s.mu.Unlock()

	s.metrics.ObserveMatrixFetch(metrics.FetchOutcomeSuccess)
	if err := s.cache.Write(ctx, matrix); err != nil {
		s.logger.WithError(err).Warn("Failed to persist pricing cache")
	}
	return nil
}

// applyLocked replaces the matrix wholesale and recomputes every region
// projection. Callers hold s.mu.
func (s *PricingService) applyLocked(matrix entity.PricingMatrix, at time.Time) {
	s.matrix = matrix
	s.updatedAt = at
	s.entries = projectRegions(matrix)
}

func projectRegions(matrix entity.PricingMatrix) map[entity.Region][]entity.PricingEntry {
	out := make(map[entity.Region][]entity.PricingEntry, len(matrix))
	for region, plans := range matrix {
		entries := make([]entity.PricingEntry, 0, plans.Len())
		for _, plan := range plans.Plans() {
			pricing, _ := plans.Plan(plan)
			if entry := entity.NormalizeEntry(plan, region, pricing, entity.BillingPeriodMonthly); entry != nil {
				entries = append(entries, *entry)
			}
		}
		out[region] = entries
	}
	return out
}

// GetPriceForPlan looks the plan up in the in-memory matrix. It never touches
// the network and returns nil when the matrix or the slice is missing.
func (s *PricingService) GetPriceForPlan(plan entity.PlanType, region entity.Region, period entity.BillingPeriod) *entity.PricingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.matrix == nil {
		return nil
	}
	pricing, ok := s.matrix[region].Plan(plan)
	if !ok {
		return nil
	}
	return entity.NormalizeEntry(plan, region, pricing, period)
}

// RegionEntries returns the region's plans in upstream order.
func (s *PricingService) RegionEntries(region entity.Region) []entity.PricingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.entries[region]
	out := make([]entity.PricingEntry, len(entries))
	copy(out, entries)
	return out
}

func (s *PricingService) HasRegionEntries(region entity.Region) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[region]) > 0
}

// Ready is closed once the first cache hit or fetch settles the loading state.
func (s *PricingService) Ready() <-chan struct{} {
	return s.ready
}

// markReadyLocked closes ready on the first settle. Callers hold s.mu.
func (s *PricingService) markReadyLocked() {
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *PricingService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Matrix returns the current matrix. Callers must treat it as read-only.
func (s *PricingService) Matrix() entity.PricingMatrix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matrix
}

func (s *PricingService) State() PricingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return PricingState{
		Loading:         s.loading,
		Error:           s.errMsg,
		HasData:         s.matrix != nil,
		ServedFromCache: s.servedFromCache,
		UpdatedAt:       s.updatedAt,
	}
}

// FetchRegionPricing asks the upstream for a single region's list. Failures
// yield an empty list.
func (s *PricingService) FetchRegionPricing(ctx context.Context, region entity.Region) []entity.PricingEntry {
	return s.fetcher.FetchRegion(ctx, region)
}

// Close cancels in-flight fetches and waits for every fetch worker, including
// its cache write, to return. Completions that arrive afterwards are discarded.
func (s *PricingService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// track registers a fetch worker unless the service is closed.
func (s *PricingService) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *PricingService) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

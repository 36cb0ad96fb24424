package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"restodash/internal/sales"
)

// ErrNotLoaded is returned until the first successful feed load
var ErrNotLoaded = errors.New("sales data has not been loaded yet")

// Loader produces daily aggregates from the sales feed
type Loader interface {
	Load(ctx context.Context) ([]sales.DailyAggregate, error)
}

// LoadRecorder receives the outcome of every load
type LoadRecorder interface {
	RecordFeedLoad(err error, days int)
}

// View represents the sales dashboard for one date range
type View struct {
	Range      sales.RangeKind        `json:"range"`
	Daily      []sales.DailyAggregate `json:"daily"`
	Summary    sales.Summary          `json:"summary"`
	Revenue    decimal.Decimal        `json:"revenue"`
	Start      string                 `json:"start,omitempty"`
	End        string                 `json:"end,omitempty"`
	LoadedAt   time.Time              `json:"loadedAt"`
	FeedSource string                 `json:"feedSource,omitempty"`
}

// Service keeps the latest sales snapshot and answers range queries on it.
// A failed reload leaves the previous snapshot in place.
type Service struct {
	loader   Loader
	recorder LoadRecorder
	source   string
	now      func() time.Time

	mu        sync.RWMutex
	daily     []sales.DailyAggregate
	loadedAt  time.Time
	lastError error
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the wall clock used for rolling ranges
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRecorder reports load outcomes to r
func WithRecorder(r LoadRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithSource labels views with the feed location
func WithSource(source string) Option {
	return func(s *Service) { s.source = source }
}

// NewService creates a new dashboard service
func NewService(loader Loader, opts ...Option) *Service {
	s := &Service{
		loader: loader,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload fetches and processes the feed, replacing the snapshot on success
func (s *Service) Reload(ctx context.Context) error {
	daily, err := s.loader.Load(ctx)
	if s.recorder != nil {
		s.recorder.RecordFeedLoad(err, len(daily))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastError = err
		logrus.WithError(err).Error("Error loading sales data")
		return err
	}

	s.daily = daily
	s.loadedAt = s.now()
	s.lastError = nil
	return nil
}

// LastError returns the error of the most recent load, if it failed
func (s *Service) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Overview filters the snapshot by sel and summarizes the result
func (s *Service) Overview(sel sales.Selector) (*View, error) {
	daily, loadedAt, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	filtered, err := sales.FilterRange(daily, sel, s.now())
	if err != nil {
		return nil, err
	}

	view := &View{
		Range:      sel.Kind,
		Daily:      filtered,
		Summary:    sales.Summarize(filtered),
		Revenue:    decimal.Zero,
		LoadedAt:   loadedAt,
		FeedSource: s.source,
	}

	start, end, ok := windowOf(filtered, sel)
	if ok {
		view.Start = start.Format(sales.DateLayout)
		view.End = end.Format(sales.DateLayout)
		view.Revenue = sales.RevenueInRange(daily, start, end)
	}

	return view, nil
}

// RevenueBetween sums revenue for the inclusive calendar range
func (s *Service) RevenueBetween(start, end time.Time) (decimal.Decimal, error) {
	daily, _, err := s.snapshot()
	if err != nil {
		return decimal.Zero, err
	}
	return sales.RevenueInRange(daily, start, end), nil
}

func (s *Service) snapshot() ([]sales.DailyAggregate, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.daily == nil {
		return nil, time.Time{}, ErrNotLoaded
	}
	return s.daily, s.loadedAt, nil
}

// windowOf picks the revenue window for a view: the explicit bounds of a
// custom range, otherwise the first and last dated day of the result.
func windowOf(filtered []sales.DailyAggregate, sel sales.Selector) (time.Time, time.Time, bool) {
	if sel.Kind == sales.RangeCustom && sel.Start != nil && sel.End != nil {
		return *sel.Start, *sel.End, true
	}

	var first, last time.Time
	for _, agg := range filtered {
		day, err := time.Parse(sales.DateLayout, agg.Date)
		if err != nil {
			continue
		}
		if first.IsZero() {
			first = day
		}
		last = day
	}
	return first, last, !first.IsZero()
}

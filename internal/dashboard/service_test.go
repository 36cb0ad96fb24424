package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"restodash/internal/sales"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context) ([]sales.DailyAggregate, error) {
	args := m.Called(ctx)
	daily, _ := args.Get(0).([]sales.DailyAggregate)
	return daily, args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordFeedLoad(err error, days int) {
	m.Called(err, days)
}

func januaryDays() []sales.DailyAggregate {
	daily := []sales.DailyAggregate{}
	for d := 1; d <= 10; d++ {
		daily = append(daily, sales.DailyAggregate{
			Date:    time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC).Format(sales.DateLayout),
			Sales:   2,
			Revenue: decimal.NewFromInt(100),
			Orders:  4,
		})
	}
	return daily
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
}

func TestOverviewBeforeLoad(t *testing.T) {
	service := NewService(new(mockLoader))

	_, err := service.Overview(sales.Selector{Kind: sales.RangeAll})
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = service.RevenueBetween(fixedClock(), fixedClock())
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestReloadAndOverview(t *testing.T) {
	loader := new(mockLoader)
	loader.On("Load", mock.Anything).Return(januaryDays(), nil)
	recorder := new(mockRecorder)
	recorder.On("RecordFeedLoad", nil, 10).Return()

	service := NewService(loader, WithClock(fixedClock), WithRecorder(recorder), WithSource("test.csv"))
	require.NoError(t, service.Reload(context.Background()))

	view, err := service.Overview(sales.Selector{Kind: sales.RangeWeek})
	require.NoError(t, err)

	assert.Len(t, view.Daily, 7)
	assert.Equal(t, 28, view.Summary.TotalOrders)
	assert.True(t, view.Summary.TotalRevenue.Equal(decimal.NewFromInt(700)))
	assert.True(t, view.Summary.AverageOrderValue.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "2024-01-04", view.Start)
	assert.Equal(t, "2024-01-10", view.End)
	assert.True(t, view.Revenue.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, "test.csv", view.FeedSource)
	assert.Equal(t, fixedClock(), view.LoadedAt)

	loader.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestOverviewCustomRange(t *testing.T) {
	loader := new(mockLoader)
	loader.On("Load", mock.Anything).Return(januaryDays(), nil)

	service := NewService(loader, WithClock(fixedClock))
	require.NoError(t, service.Reload(context.Background()))

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	view, err := service.Overview(sales.Selector{Kind: sales.RangeCustom, Start: &start, End: &end})
	require.NoError(t, err)
	assert.Len(t, view.Daily, 3)
	assert.True(t, view.Revenue.Equal(decimal.NewFromInt(300)))

	_, err = service.Overview(sales.Selector{Kind: sales.RangeCustom, Start: &start})
	assert.ErrorIs(t, err, sales.ErrIncompleteRange)
}

func TestFailedReloadKeepsSnapshot(t *testing.T) {
	loader := new(mockLoader)
	loader.On("Load", mock.Anything).Return(januaryDays(), nil).Once()
	loader.On("Load", mock.Anything).Return(nil, errors.New("feed down")).Once()

	service := NewService(loader, WithClock(fixedClock))
	require.NoError(t, service.Reload(context.Background()))

	err := service.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, err, service.LastError())

	view, err := service.Overview(sales.Selector{Kind: sales.RangeAll})
	require.NoError(t, err)
	assert.Len(t, view.Daily, 10)

	revenue, err := service.RevenueBetween(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.NewFromInt(500)))
}

func TestRefresherDisabled(t *testing.T) {
	refresher := NewRefresher(NewService(new(mockLoader)), 0)

	require.NoError(t, refresher.Start(context.Background()))
	assert.False(t, refresher.Running())
}

// countingLoader returns one more day on every load
type countingLoader struct {
	loads int32
}

func (l *countingLoader) Load(ctx context.Context) ([]sales.DailyAggregate, error) {
	n := atomic.AddInt32(&l.loads, 1)
	return januaryDays()[:n%10+1], nil
}

func (l *countingLoader) count() int32 {
	return atomic.LoadInt32(&l.loads)
}

func TestRefresherReloadsUntilCancelled(t *testing.T) {
	loader := &countingLoader{}
	service := NewService(loader, WithClock(fixedClock))
	require.NoError(t, service.Reload(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher := NewRefresher(service, 50*time.Millisecond)
	require.NoError(t, refresher.Start(ctx))
	assert.True(t, refresher.Running())

	assert.Eventually(t, func() bool {
		return loader.count() >= 3
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		view, err := service.Overview(sales.Selector{Kind: sales.RangeAll})
		return err == nil && len(view.Daily) > 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool {
		return !refresher.Running()
	}, 2*time.Second, 10*time.Millisecond)

	stopped := loader.count()
	time.Sleep(150 * time.Millisecond)
	assert.LessOrEqual(t, loader.count(), stopped+1)
}

package sales

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// RangeKind names a date window over the daily aggregates
type RangeKind string

const (
	RangeWeek   RangeKind = "week"
	RangeMonth  RangeKind = "month"
	RangeYear   RangeKind = "year"
	RangeAll    RangeKind = "all"
	RangeCustom RangeKind = "custom"
)

var (
	// ErrUnknownRange is returned for a range name outside week/month/year/all/custom
	ErrUnknownRange = errors.New("unknown date range")
	// ErrIncompleteRange is returned when a custom range lacks a start or end date
	ErrIncompleteRange = errors.New("custom date range requires both start and end dates")
)

// rollingDays is the length of each preset window, counted back from today
var rollingDays = map[RangeKind]int{
	RangeWeek:  7,
	RangeMonth: 30,
	RangeYear:  365,
}

// Selector picks a subset of daily aggregates. Start and End are only read
// for RangeCustom.
type Selector struct {
	Kind  RangeKind
	Start *time.Time
	End   *time.Time
}

// ParseRangeKind converts a query value into a RangeKind
func ParseRangeKind(s string) (RangeKind, error) {
	kind := RangeKind(s)
	switch kind {
	case RangeWeek, RangeMonth, RangeYear, RangeAll, RangeCustom:
		return kind, nil
	default:
		return "", errors.Wrapf(ErrUnknownRange, "%q", s)
	}
}

// FilterRange returns the aggregates inside the selected window, in their
// original order.
//
// Preset windows are rolling: week, month and year cover the last 7, 30
// and 365 calendar days up to and including the calendar date of now.
// They are not aligned to calendar weeks, months or years.
func FilterRange(aggs []DailyAggregate, sel Selector, now time.Time) ([]DailyAggregate, error) {
	switch sel.Kind {
	case RangeAll:
		return aggs, nil
	case RangeCustom:
		if sel.Start == nil || sel.End == nil {
			return nil, ErrIncompleteRange
		}
		return between(aggs, truncateDay(*sel.Start), truncateDay(*sel.End)), nil
	}

	days, ok := rollingDays[sel.Kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRange, "%q", sel.Kind)
	}
	end := truncateDay(now)
	start := end.AddDate(0, 0, -(days - 1))
	return between(aggs, start, end), nil
}

// RevenueInRange sums revenue of aggregates dated within [start, end],
// both bounds inclusive and compared as calendar dates.
func RevenueInRange(aggs []DailyAggregate, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, agg := range between(aggs, truncateDay(start), truncateDay(end)) {
		total = total.Add(agg.Revenue)
	}
	return total
}

func between(aggs []DailyAggregate, start, end time.Time) []DailyAggregate {
	out := make([]DailyAggregate, 0, len(aggs))
	for _, agg := range aggs {
		day, ok := calendarDate(agg.Date)
		if !ok {
			continue
		}
		if day.Before(start) || day.After(end) {
			continue
		}
		out = append(out, agg)
	}
	return out
}

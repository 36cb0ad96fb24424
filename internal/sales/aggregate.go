// Package sales turns a point-of-sale CSV feed into daily aggregates and
// the summary figures shown on the dashboard.
package sales

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DailyAggregate represents the sales totals of one calendar day
type DailyAggregate struct {
	Date    string          `json:"date"`
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

var (
	leadingInt     = regexp.MustCompile(`^[+-]?\d+`)
	leadingDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)
)

// Process runs raw CSV text through ingestion and daily aggregation
func Process(text string) ([]DailyAggregate, error) {
	records, err := Ingest(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return Aggregate(records), nil
}

// Aggregate folds records into one aggregate per normalized date, sorted
// ascending by date. Every record counts as one order; unreadable
// quantities and amounts contribute zero.
func Aggregate(records []RawRecord) []DailyAggregate {
	daily := make(map[string]*DailyAggregate)

	for i, record := range records {
		date := ParseDate(record[FieldDate])
		agg, ok := daily[date]
		if !ok {
			agg = &DailyAggregate{Date: date, Revenue: decimal.Zero}
			daily[date] = agg
		}

		quantity, qOK := parseQuantity(record[FieldQuantity])
		amount, aOK := parseAmount(record[FieldTransactionAmount])
		if !qOK || !aOK {
			logrus.WithFields(logrus.Fields{
				"row":                i + 1,
				"date":               date,
				"quantity":           record[FieldQuantity],
				"transaction_amount": record[FieldTransactionAmount],
			}).Debug("Sales row has unreadable numeric fields, counting them as zero")
		}

		agg.Sales += quantity
		agg.Revenue = agg.Revenue.Add(amount)
		agg.Orders++
	}

	out := make([]DailyAggregate, 0, len(daily))
	for _, agg := range daily {
		out = append(out, *agg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	return out
}

// parseQuantity reads the leading integer of s, ignoring leading
// whitespace and any trailing text ("12 units" is 12).
func parseQuantity(s string) (int, bool) {
	match := leadingInt.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(match, "+"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseAmount reads the leading decimal number of s the same way
func parseAmount(s string) (decimal.Decimal, bool) {
	match := leadingDecimal.FindString(strings.TrimSpace(s))
	if match == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(match, "+"))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

package sales

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Column names consumed from the point-of-sale feed
const (
	FieldDate              = "date"
	FieldQuantity          = "quantity"
	FieldTransactionAmount = "transaction_amount"
)

// ErrMissingHeader is returned when the feed has no header row
var ErrMissingHeader = errors.New("sales feed has no header row")

// RawRecord represents one row of the sales feed keyed by normalized
// column name
type RawRecord map[string]string

// Ingest reads CSV text with a header row into raw records. Header names
// are lower-cased and trimmed. Blank lines are skipped and rows with a
// different field count than the header are kept; missing trailing fields
// are simply absent from the record.
func Ingest(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sales header")
	}
	header = normalizeHeader(header)
	logDuplicateColumns(header)

	var records []RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logrus.WithFields(logrus.Fields{
					"line":  parseErr.Line,
					"error": parseErr.Err,
				}).Warn("Skipping unreadable sales row")
				continue
			}
			return nil, errors.Wrap(err, "failed to read sales feed")
		}

		record := make(RawRecord, len(header))
		for i, value := range row {
			if i >= len(header) {
				line, _ := reader.FieldPos(i)
				logrus.WithField("line", line).Debug("Sales row has more fields than header")
				break
			}
			if _, seen := record[header[i]]; seen {
				continue
			}
			record[header[i]] = value
		}
		records = append(records, record)
	}

	return records, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		out[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return out
}

// logDuplicateColumns reports repeated header names. Only the first column
// of a repeated name is read.
func logDuplicateColumns(header []string) {
	seen := make(map[string]int, len(header))
	for i, name := range header {
		first, ok := seen[name]
		if !ok {
			seen[name] = i
			continue
		}
		logrus.WithFields(logrus.Fields{
			"column":        name,
			"first_index":   first,
			"ignored_index": i,
		}).Debug("Ignoring duplicate sales feed column")
	}
}

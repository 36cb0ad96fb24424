package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"restodash/internal/sales"
)

var (
	// ErrFeedUnavailable covers any failure to obtain the CSV text
	ErrFeedUnavailable = errors.New("sales feed unavailable")
	// ErrNoSalesData means the feed was read but produced no daily aggregates
	ErrNoSalesData = errors.New("no data processed from CSV")
)

// Fetcher loads the point-of-sale CSV from an HTTP URL or a local file
type Fetcher struct {
	location string
	client   *http.Client
}

// NewFetcher creates a fetcher for location. Locations starting with
// http:// or https:// are fetched over HTTP, anything else is read from
// disk.
func NewFetcher(location string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		location: location,
		client:   &http.Client{Timeout: timeout},
	}
}

// Location returns where the feed is read from
func (f *Fetcher) Location() string {
	return f.location
}

// Fetch returns the raw CSV text
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	var (
		body []byte
		err  error
	)
	if isRemote(f.location) {
		body, err = f.fetchHTTP(ctx)
	} else {
		body, err = os.ReadFile(f.location)
		if err != nil {
			err = errors.Wrapf(ErrFeedUnavailable, "failed to read CSV: %v", err)
		}
	}
	if err != nil {
		return "", err
	}

	text := string(body)
	if strings.TrimSpace(text) == "" {
		return "", errors.Wrap(ErrFeedUnavailable, "CSV file is empty")
	}
	return text, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.location, nil)
	if err != nil {
		return nil, errors.Wrapf(ErrFeedUnavailable, "invalid feed URL: %v", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrFeedUnavailable, "failed to fetch CSV: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrap(ErrFeedUnavailable, fmt.Sprintf("failed to fetch CSV: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrFeedUnavailable, "failed to read CSV body: %v", err)
	}
	return body, nil
}

// Load fetches the feed and runs it through the sales pipeline
func (f *Fetcher) Load(ctx context.Context) ([]sales.DailyAggregate, error) {
	text, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	aggs, err := sales.Process(text)
	if err != nil {
		return nil, errors.Wrap(err, "failed to process sales feed")
	}
	if len(aggs) == 0 {
		return nil, ErrNoSalesData
	}

	logrus.WithFields(logrus.Fields{
		"location": f.location,
		"days":     len(aggs),
	}).Info("Sales feed loaded")

	return aggs, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"restodash/internal/dashboard"
	"restodash/internal/export"
	"restodash/internal/feed"
	"restodash/internal/sales"
)

// errBadDate is returned for range bounds that are not YYYY-MM-DD
var errBadDate = errors.New("dates must use the YYYY-MM-DD format")

// selectorFromQuery reads range, start and end from the query string.
// An empty range selects all data.
func selectorFromQuery(c *gin.Context) (sales.Selector, error) {
	kind := sales.RangeAll
	if raw := c.Query("range"); raw != "" {
		parsed, err := sales.ParseRangeKind(raw)
		if err != nil {
			return sales.Selector{}, err
		}
		kind = parsed
	}

	sel := sales.Selector{Kind: kind}
	var err error
	if sel.Start, err = dateParam(c, "start"); err != nil {
		return sales.Selector{}, err
	}
	if sel.End, err = dateParam(c, "end"); err != nil {
		return sales.Selector{}, err
	}
	return sel, nil
}

func dateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(sales.DateLayout, raw)
	if err != nil {
		return nil, errors.Wrapf(errBadDate, "invalid %s %q", name, raw)
	}
	return &t, nil
}

// salesStatus maps sales errors to HTTP status codes
func salesStatus(err error) int {
	switch {
	case errors.Is(err, sales.ErrUnknownRange),
		errors.Is(err, sales.ErrIncompleteRange),
		errors.Is(err, errBadDate):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, feed.ErrFeedUnavailable),
		errors.Is(err, feed.ErrNoSalesData):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) overview(c *gin.Context) (*dashboard.View, bool) {
	sel, err := selectorFromQuery(c)
	if err != nil {
		respondError(c, salesStatus(err), err)
		return nil, false
	}
	view, err := s.dashboard.Overview(sel)
	if err != nil {
		respondError(c, salesStatus(err), err)
		return nil, false
	}
	return view, true
}

// GetSalesOverview returns daily aggregates and summary metrics for a range
func (s *Server) GetSalesOverview(c *gin.Context) {
	view, ok := s.overview(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

// ReloadSales re-reads the sales feed
func (s *Server) ReloadSales(c *gin.Context) {
	if err := s.dashboard.Reload(c.Request.Context()); err != nil {
		respondError(c, salesStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

// GetRevenue sums revenue between the inclusive start and end dates
func (s *Server) GetRevenue(c *gin.Context) {
	start, err := dateParam(c, "start")
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := dateParam(c, "end")
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if start == nil || end == nil {
		respondError(c, http.StatusBadRequest, sales.ErrIncompleteRange)
		return
	}

	revenue, err := s.dashboard.RevenueBetween(*start, *end)
	if err != nil {
		respondError(c, salesStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":   start.Format(sales.DateLayout),
		"end":     end.Format(sales.DateLayout),
		"revenue": revenue,
	})
}

// ExportSales downloads the selected range as an XLSX workbook
func (s *Server) ExportSales(c *gin.Context) {
	view, ok := s.overview(c)
	if !ok {
		return
	}
	data, err := export.SalesWorkbook(view)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="sales.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

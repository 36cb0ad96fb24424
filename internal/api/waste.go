package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"restodash/internal/export"
	"restodash/internal/models"
	"restodash/internal/waste"
)

func wasteStatus(err error) int {
	if errors.Is(err, waste.ErrInvalidEntry) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ListWaste returns the waste log
func (s *Server) ListWaste(c *gin.Context) {
	entries, err := s.waste.List()
	if err != nil {
		respondError(c, wasteStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// AddWaste logs a waste entry and notifies stream subscribers
func (s *Server) AddWaste(c *gin.Context) {
	var entry models.WasteEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	added, err := s.waste.Add(entry)
	if err != nil {
		respondError(c, wasteStatus(err), err)
		return
	}
	if s.monitor != nil {
		s.monitor.RecordWasteEntry()
	}
	c.JSON(http.StatusCreated, added)
}

// GetWasteAnalytics returns totals by category, item and date
func (s *Server) GetWasteAnalytics(c *gin.Context) {
	analytics, err := s.waste.Analytics()
	if err != nil {
		respondError(c, wasteStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// ExportWasteReport downloads the waste analytics as a PDF
func (s *Server) ExportWasteReport(c *gin.Context) {
	analytics, err := s.waste.Analytics()
	if err != nil {
		respondError(c, wasteStatus(err), err)
		return
	}
	data, err := export.WasteReport(analytics, s.now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="waste-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

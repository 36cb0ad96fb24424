package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"restodash/internal/inventory"
	"restodash/internal/models"
)

func inventoryStatus(err error) int {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInvalidItem):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ListInventory returns every inventory item
func (s *Server) ListInventory(c *gin.Context) {
	items, err := s.inventory.List()
	if err != nil {
		respondError(c, inventoryStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetInventoryItem returns a single item
func (s *Server) GetInventoryItem(c *gin.Context) {
	item, err := s.inventory.Get(c.Param("id"))
	if err != nil {
		respondError(c, inventoryStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) AddInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	added, err := s.inventory.Add(item)
	if err != nil {
		respondError(c, inventoryStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (s *Server) UpdateInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	item.ID = c.Param("id")

	updated, err := s.inventory.Update(item)
	if err != nil {
		respondError(c, inventoryStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteInventoryItem(c *gin.Context) {
	if err := s.inventory.Delete(c.Param("id")); err != nil {
		respondError(c, inventoryStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLowStock returns items at or below their minimum quantity
func (s *Server) GetLowStock(c *gin.Context) {
	items, err := s.inventory.LowStock()
	if err != nil {
		respondError(c, inventoryStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetExpiring returns items expiring within ?days= (default from config)
func (s *Server) GetExpiring(c *gin.Context) {
	days := s.expiringDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(c, http.StatusBadRequest, errors.Errorf("invalid days %q", raw))
			return
		}
		days = parsed
	}

	items, err := s.inventory.ExpiringSoon(days, s.now())
	if err != nil {
		respondError(c, inventoryStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ResetInventory restores the default catalogue
func (s *Server) ResetInventory(c *gin.Context) {
	if err := s.inventory.Seed(inventory.DefaultCatalogue()); err != nil {
		respondError(c, inventoryStatus(err), err)
		return
	}
	count, err := s.inventory.Count()
	if err != nil {
		respondError(c, inventoryStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset", "items": count})
}

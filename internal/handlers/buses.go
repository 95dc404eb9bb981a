package handlers

import (
	"net/http"
	"strconv"

	"sawari/internal/models"

	"github.com/gin-gonic/gin"
)

func busIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus ID"})
		return 0, false
	}
	return id, true
}

// ListBuses returns the full inventory.
// GET /api/buses
func (h *Handlers) ListBuses(c *gin.Context) {
	buses, err := h.services.Buses.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buses": buses})
}

// SearchBuses filters buses by route term, minimum availability and
// price range.
// GET /api/buses/search?route=&min_available=&price_min=&price_max=
func (h *Handlers) SearchBuses(c *gin.Context) {
	q := models.SearchBusesQuery{RouteTerm: c.Query("route")}

	if raw := c.Query("min_available"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_available"})
			return
		}
		q.MinAvailable = &v
	}
	if raw := c.Query("price_min"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price_min"})
			return
		}
		q.PriceMin = &v
	}
	if raw := c.Query("price_max"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price_max"})
			return
		}
		q.PriceMax = &v
	}

	buses, err := h.services.Buses.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buses": buses})
}

// GetBus returns a single bus.
// GET /api/buses/:id
func (h *Handlers) GetBus(c *gin.Context) {
	id, ok := busIDParam(c)
	if !ok {
		return
	}

	bus, err := h.services.Buses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bus)
}

// GetAvailability reports the seat inventory of a bus at one observed
// instant.
// GET /api/buses/:id/availability
func (h *Handlers) GetAvailability(c *gin.Context) {
	id, ok := busIDParam(c)
	if !ok {
		return
	}

	resp, err := h.services.Buses.Availability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSeatMap renders the bus layout as plain text.
// GET /api/buses/:id/seatmap
func (h *Handlers) GetSeatMap(c *gin.Context) {
	id, ok := busIDParam(c)
	if !ok {
		return
	}

	seatMap, err := h.services.Buses.SeatMap(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, seatMap)
}

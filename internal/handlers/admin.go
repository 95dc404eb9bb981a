package handlers

import (
	"net/http"

	"sawari/internal/models"

	"github.com/gin-gonic/gin"
)

// AddBus creates a bus with availability equal to capacity.
// POST /api/admin/buses
func (h *Handlers) AddBus(c *gin.Context) {
	var req models.AddBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	bus, err := h.services.Buses.Add(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bus)
}

// UpdateBus applies partial field changes, including capacity resizes.
// PATCH /api/admin/buses/:id
func (h *Handlers) UpdateBus(c *gin.Context) {
	id, ok := busIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.TotalSeats != nil && *req.TotalSeats < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_seats must be at least 1"})
		return
	}
	if req.Price != nil && *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}

	bus, err := h.services.Buses.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bus)
}

// DeleteBus removes a bus; its tickets go with it.
// DELETE /api/admin/buses/:id
func (h *Handlers) DeleteBus(c *gin.Context) {
	id, ok := busIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Buses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted"})
}

// ListAllTickets returns every ticket with its owner and route.
// GET /api/admin/tickets
func (h *Handlers) ListAllTickets(c *gin.Context) {
	tickets, err := h.services.Admin.ListTickets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// ListUsers returns all users without credential material.
// GET /api/admin/users
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.services.Admin.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetStats aggregates system-wide counters.
// GET /api/admin/stats
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.services.Admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

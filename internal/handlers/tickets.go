package handlers

import (
	"net/http"

	"sawari/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateTicket books a seat for the authenticated user.
// POST /api/tickets
func (h *Handlers) CreateTicket(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.SeatNo < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seat_no must be positive or omitted"})
		return
	}

	resp, err := h.services.Bookings.Create(c.Request.Context(), uid, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListTickets returns the caller's tickets, newest first.
// GET /api/tickets
func (h *Handlers) ListTickets(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	tickets, err := h.services.Bookings.ListUserTickets(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// CancelTicket cancels an ACTIVE ticket owned by the caller and refunds
// its frozen price to the wallet.
// PATCH /api/tickets/cancel
func (h *Handlers) CancelTicket(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.CancelTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.services.Bookings.Cancel(c.Request.Context(), uid, req.TicketID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"net/http"

	"sawari/internal/models"

	"github.com/gin-gonic/gin"
)

// GetWallet returns the caller's balance.
// GET /api/wallet
func (h *Handlers) GetWallet(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	resp, err := h.services.Wallets.GetWallet(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddFunds credits the caller's wallet.
// POST /api/wallet/funds
func (h *Handlers) AddFunds(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive integer"})
		return
	}

	resp, err := h.services.Wallets.AddFunds(c.Request.Context(), uid, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

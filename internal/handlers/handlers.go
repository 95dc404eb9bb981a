package handlers

import (
	"errors"
	"net/http"

	apperrors "sawari/internal/errors"
	"sawari/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func New(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// userID returns the authenticated caller's ID set by the auth
// middleware.
func userID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	id, ok := v.(int64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to HTTP statuses. Unknown errors
// become opaque 500s; the logging middleware records the detail.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidTravelDate):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrBusNotFound),
		errors.Is(err, apperrors.ErrTicketNotFound),
		errors.Is(err, apperrors.ErrUserNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		status, message = http.StatusPaymentRequired, err.Error()
	case errors.Is(err, apperrors.ErrSeatUnavailable),
		errors.Is(err, apperrors.ErrNoSeatsAvailable),
		errors.Is(err, apperrors.ErrNoCapacity),
		errors.Is(err, apperrors.ErrAlreadyCancelled),
		errors.Is(err, apperrors.ErrCapacityBelowBooked):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrTransientConflict):
		status, message = http.StatusConflict, "concurrent update, please retry"
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		status, message = http.StatusServiceUnavailable, "service temporarily unavailable"
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	}

	c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

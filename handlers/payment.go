package handlers

import (
	"net/http"

	"roomify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// paymentWebhookInput is the gateway callback payload. Settlement is a plain
// state transition keyed by reservation ID; amounts come from the gateway,
// never re-priced here.
type paymentWebhookInput struct {
	ReservationID string  `json:"reservation_id" binding:"required"`
	Status        string  `json:"status" binding:"required"` // "succeeded" or "failed"
	Amount        float64 `json:"amount"`
}

// PaymentWebhookHandler applies a gateway settlement callback.
func (hb *HandlerBundle) PaymentWebhookHandler(c *gin.Context) {
	var input paymentWebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	logger := utils.GetLogger()

	switch input.Status {
	case "succeeded":
		if input.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "succeeded settlement needs a positive amount"})
			return
		}
		if err := hb.Engine.MarkPaid(c.Request.Context(), input.ReservationID, input.Amount); err != nil {
			logger.Error("Failed to apply payment settlement",
				zap.String("reservationID", input.ReservationID), zap.Error(err))
			writeEngineError(c, err)
			return
		}
	case "failed":
		if err := hb.Engine.MarkFailed(c.Request.Context(), input.ReservationID); err != nil {
			logger.Error("Failed to record payment failure",
				zap.String("reservationID", input.ReservationID), zap.Error(err))
			writeEngineError(c, err)
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported settlement status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

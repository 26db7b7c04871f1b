package handlers

import (
	"errors"
	"net/http"

	reservationRepo "roomify/database/repository/reservation"
	"roomify/services/listing"
	"roomify/services/reservation"
	"roomify/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// HandlerBundle aggregates the services the HTTP layer dispatches to.
type HandlerBundle struct {
	Catalog         listing.Service
	Engine          reservation.Service
	ReservationRepo reservationRepo.ReservationRepository
	CacheClient     *redis.Client
}

// writeEngineError maps engine taxonomy codes to HTTP statuses.
func writeEngineError(c *gin.Context, err error) {
	var e *reservation.Error
	if !errors.As(err, &e) {
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
		return
	}
	switch e.Code {
	case reservation.CodeNotFound:
		utils.JSONError(c, http.StatusNotFound, e.Message, "")
	case reservation.CodeConflict:
		utils.JSONError(c, http.StatusConflict, e.Message, "")
	case reservation.CodeUnavailable:
		utils.JSONError(c, http.StatusConflict, e.Message, "")
	case reservation.CodeInvalidWindow:
		utils.JSONError(c, http.StatusBadRequest, e.Message, "")
	case reservation.CodePricingUnresolvable:
		utils.JSONError(c, http.StatusUnprocessableEntity, e.Message, "")
	case reservation.CodeForbidden:
		utils.JSONError(c, http.StatusForbidden, e.Message, "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, e.Message, "")
	}
}

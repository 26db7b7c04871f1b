package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	reservationRepo "roomify/database/repository/reservation"
	"roomify/middleware"
	"roomify/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// quoteSessionTTL bounds how long a cached quote may back a reservation
// request before it must be re-priced.
const quoteSessionTTL = 10 * time.Minute

// CheckAvailabilityHandler reports whether a window on a listing is bookable
// and why not when it isn't.
func (hb *HandlerBundle) CheckAvailabilityHandler(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC3339"})
		return
	}

	result, err := hb.Engine.CheckAvailability(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// QuoteHandler prices a window without reserving it. The quote is cached as
// a short-lived session so the client can reserve against a known price.
func (hb *HandlerBundle) QuoteHandler(c *gin.Context) {
	var input models.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	quote, err := hb.Engine.Quote(c.Request.Context(), input)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	quoteID := uuid.New().String()
	if data, err := json.Marshal(quote); err == nil {
		// Cache failures degrade to quoteless reservation, not errors.
		hb.CacheClient.Set(c.Request.Context(), "quote:"+quoteID, data, quoteSessionTTL)
	}

	c.JSON(http.StatusOK, gin.H{
		"quoteID": quoteID,
		"quote":   quote,
	})
}

// GetQuoteHandler returns a previously issued quote session.
func (hb *HandlerBundle) GetQuoteHandler(c *gin.Context) {
	data, err := hb.CacheClient.Get(c.Request.Context(), "quote:"+c.Param("quoteID")).Bytes()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quote session expired or not found"})
		return
	}
	var quote models.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode quote session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quoteID": c.Param("quoteID"), "quote": quote})
}

// ListFreeSlotsHandler returns the bookable sub-ranges of one calendar day.
func (hb *HandlerBundle) ListFreeSlotsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	slots, err := hb.Engine.ListFreeSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// CreateReservationHandler books a window for the authenticated guest.
func (hb *HandlerBundle) CreateReservationHandler(c *gin.Context) {
	var input models.CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := hb.Engine.CreateReservation(c.Request.Context(), middleware.CallerID(c), input)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetReservationHandler returns one reservation; only its guest or the
// listing host may read it.
func (hb *HandlerBundle) GetReservationHandler(c *gin.Context) {
	res, err := hb.ReservationRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reservation"})
		return
	}
	caller := middleware.CallerID(c)
	if res.GuestID != caller && !hb.callerOwnsListing(c, res.ListingID, caller) {
		c.JSON(http.StatusForbidden, gin.H{"error": "reservation belongs to another account"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// CancelReservationHandler cancels on behalf of the guest or the host and
// returns the refund outcome.
func (hb *HandlerBundle) CancelReservationHandler(c *gin.Context) {
	var input models.CancelReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := hb.Engine.CancelReservation(c.Request.Context(), c.Param("id"), input.CancelledBy, middleware.CallerID(c))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmReservationHandler moves a pending reservation to confirmed.
func (hb *HandlerBundle) ConfirmReservationHandler(c *gin.Context) {
	if err := hb.requireHost(c); err != nil {
		return
	}
	if err := hb.Engine.Confirm(c.Request.Context(), c.Param("id")); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": models.ReservationConfirmed})
}

// CompleteReservationHandler marks a fully paid, confirmed reservation as
// completed after the stay.
func (hb *HandlerBundle) CompleteReservationHandler(c *gin.Context) {
	if err := hb.requireHost(c); err != nil {
		return
	}
	if err := hb.Engine.Complete(c.Request.Context(), c.Param("id")); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": models.ReservationCompleted})
}

// requireHost loads the reservation and rejects callers other than the
// owner of its listing. Writes its own response on failure.
func (hb *HandlerBundle) requireHost(c *gin.Context) error {
	res, err := hb.ReservationRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
			return err
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reservation"})
		return err
	}
	if !hb.callerOwnsListing(c, res.ListingID, middleware.CallerID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the listing host may do this"})
		return errors.New("forbidden")
	}
	return nil
}

func (hb *HandlerBundle) callerOwnsListing(c *gin.Context, listingID, caller string) bool {
	l, err := hb.Catalog.GetListing(c.Request.Context(), listingID)
	if err != nil {
		return false
	}
	return l.OwnerID == caller
}

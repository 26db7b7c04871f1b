package handlers

import (
	"net/http"

	"roomify/middleware"
	"roomify/models"

	"github.com/gin-gonic/gin"
)

// CreateListingHandler registers a new listing for the authenticated host.
func (hb *HandlerBundle) CreateListingHandler(c *gin.Context) {
	var input models.CreateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	l, err := hb.Catalog.CreateListing(c.Request.Context(), middleware.CallerID(c), input)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (hb *HandlerBundle) GetListingHandler(c *gin.Context) {
	l, err := hb.Catalog.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (hb *HandlerBundle) UpdateListingHandler(c *gin.Context) {
	var input models.UpdateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	l, err := hb.Catalog.UpdateListing(c.Request.Context(), middleware.CallerID(c), c.Param("id"), input)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// SetListingActiveHandler soft-enables or soft-disables a listing.
func (hb *HandlerBundle) SetListingActiveHandler(c *gin.Context) {
	var input struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := hb.Catalog.SetListingActive(c.Request.Context(), middleware.CallerID(c), c.Param("id"), *input.Active); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": *input.Active})
}

func (hb *HandlerBundle) AddTierHandler(c *gin.Context) {
	var input models.CreateTierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	tier, err := hb.Catalog.AddTier(c.Request.Context(), middleware.CallerID(c), c.Param("id"), input)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tier)
}

func (hb *HandlerBundle) ListTiersHandler(c *gin.Context) {
	tiers, err := hb.Catalog.ListTiers(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}

func (hb *HandlerBundle) RemoveTierHandler(c *gin.Context) {
	if err := hb.Catalog.RemoveTier(c.Request.Context(), middleware.CallerID(c), c.Param("id"), c.Param("tierID")); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("tierID")})
}

func (hb *HandlerBundle) SetOverrideHandler(c *gin.Context) {
	var input models.CreateOverrideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	ov, err := hb.Catalog.SetOverride(c.Request.Context(), middleware.CallerID(c), c.Param("id"), input)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

func (hb *HandlerBundle) RemoveOverrideHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	if err := hb.Catalog.RemoveOverride(c.Request.Context(), middleware.CallerID(c), c.Param("id"), c.Param("tierID"), date); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("tierID"), "date": date})
}

func (hb *HandlerBundle) AddBlockHandler(c *gin.Context) {
	var input models.CreateBlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	block, err := hb.Catalog.AddBlock(c.Request.Context(), middleware.CallerID(c), c.Param("id"), input)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (hb *HandlerBundle) RemoveBlockHandler(c *gin.Context) {
	if err := hb.Catalog.RemoveBlock(c.Request.Context(), middleware.CallerID(c), c.Param("id"), c.Param("blockID")); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("blockID")})
}

func (hb *HandlerBundle) AddAvailabilityHandler(c *gin.Context) {
	var input models.CreateAvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	iv, err := hb.Catalog.AddAvailability(c.Request.Context(), middleware.CallerID(c), c.Param("id"), input)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, iv)
}

func (hb *HandlerBundle) RemoveAvailabilityHandler(c *gin.Context) {
	if err := hb.Catalog.RemoveAvailability(c.Request.Context(), middleware.CallerID(c), c.Param("id"), c.Param("intervalID")); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("intervalID")})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imoveis/catalog/internal/api/middleware"
	"github.com/imoveis/catalog/internal/core/listing"
)

type ListingHandler struct {
	listingService *listing.Service
}

func NewListingHandler(listingService *listing.Service) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// Search serves the public catalog. The whole filter arrives in one request.
func (h *ListingHandler) Search(c *gin.Context) {
	filter := listing.DecodeFilter(c.Request.URL.Query())
	c.JSON(http.StatusOK, h.listingService.Search(c.Request.Context(), filter))
}

func (h *ListingHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": listing.Types})
}

func (h *ListingHandler) Get(c *gin.Context) {
	l, err := h.listingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// Admin endpoints

func (h *ListingHandler) List(c *gin.Context) {
	listings, err := h.listingService.ListAll(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": len(listings)})
}

func (h *ListingHandler) Create(c *gin.Context) {
	var req listing.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l, err := h.listingService.Create(c.Request.Context(), middleware.GetSession(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *ListingHandler) Update(c *gin.Context) {
	var req listing.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l, err := h.listingService.Update(c.Request.Context(), middleware.GetSession(c), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ListingHandler) Delete(c *gin.Context) {
	if err := h.listingService.Delete(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListingHandler) writeError(c *gin.Context, err error) {
	if respondError(c, err) {
		return
	}
	switch {
	case errors.Is(err, listing.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
	case errors.Is(err, listing.ErrUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing store unavailable", "retryable": true})
	default:
		internalError(c, err)
	}
}

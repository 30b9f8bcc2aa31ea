package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imoveis/catalog/internal/api/middleware"
	"github.com/imoveis/catalog/internal/core/contact"
	"github.com/imoveis/catalog/internal/core/inquiry"
	"github.com/imoveis/catalog/internal/core/validation"
)

type ContactHandler struct {
	inquiryService *inquiry.Service
	contactService *contact.Service
}

func NewContactHandler(inquiryService *inquiry.Service, contactService *contact.Service) *ContactHandler {
	return &ContactHandler{inquiryService: inquiryService, contactService: contactService}
}

// Draft pre-fills the contact form for ?imovel=<listing id>.
func (h *ContactHandler) Draft(c *gin.Context) {
	c.JSON(http.StatusOK, h.inquiryService.Draft(c.Request.Context(), c.Query("imovel")))
}

// Submit stores a visitor's message. Failed submissions echo the form back
// so the client can keep what the visitor typed.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req inquiry.Submission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.inquiryService.Submit(c.Request.Context(), &req)
	if err != nil {
		switch {
		case validation.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation failed",
				"details": validation.GetValidationErrors(err).Errors,
				"form":    req,
			})
		case errors.Is(err, contact.ErrRetryable):
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":     "Não foi possível enviar sua mensagem. Tente novamente.",
				"retryable": true,
				"form":      req,
			})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// Admin endpoints

func (h *ContactHandler) List(c *gin.Context) {
	resp, err := h.contactService.List(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, ok := parseMessageID(c)
	if !ok {
		return
	}
	if err := h.contactService.MarkRead(c.Request.Context(), middleware.GetSession(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "read": true})
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseMessageID(c)
	if !ok {
		return
	}
	if err := h.contactService.Delete(c.Request.Context(), middleware.GetSession(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseMessageID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return "", false
	}
	return id.String(), true
}

func (h *ContactHandler) writeError(c *gin.Context, err error) {
	if respondError(c, err) {
		return
	}
	if errors.Is(err, contact.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	internalError(c, err)
}

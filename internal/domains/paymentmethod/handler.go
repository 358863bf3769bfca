package paymentmethod

import (
	"github.com/gin-gonic/gin"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/middleware"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListEnabled handles GET /api/v1/payment-methods (public)
func (h *Handler) ListEnabled(c *gin.Context) {
	methods, err := h.service.ListEnabled(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, methods)
}

// List handles GET /api/v1/admin/payment-methods (admin)
func (h *Handler) List(c *gin.Context) {
	opts, err := query.Parse(c.Request.URL.Query(), SortFields)
	if err != nil {
		response.Fail(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), opts, middleware.Actor(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.List(c, result.Data, result.Metadata)
}

// Create handles POST /api/v1/admin/payment-methods (admin)
func (h *Handler) Create(c *gin.Context) {
	var req CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}

	m, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, m)
}

// Update handles PATCH /api/v1/admin/payment-methods/:id (admin)
func (h *Handler) Update(c *gin.Context) {
	var req UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}

	m, err := h.service.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, m)
}

// Delete handles DELETE /api/v1/admin/payment-methods/:id (admin)
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

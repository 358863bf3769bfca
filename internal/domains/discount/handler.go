package discount

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

// List handles GET /api/v1/discounts (owner/admin)
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

// Get handles GET /api/v1/discounts/:id (owner/admin)
func (h *Handler) Get(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, d)
}

// Create handles POST /api/v1/discounts (owner/admin)
func (h *Handler) Create(c *gin.Context) {
	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}

	d, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, d)
}

// Update handles PATCH /api/v1/discounts/:id (owner/admin)
func (h *Handler) Update(c *gin.Context) {
	var req UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}

	d, err := h.service.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, d)
}

// Delete handles DELETE /api/v1/discounts/:id (owner/admin)
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// Validate handles POST /api/v1/discounts/validate
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}

	resp, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}

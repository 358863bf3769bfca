package booking

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

// List handles GET /api/v1/bookings
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

// Get handles GET /api/v1/bookings/:id
func (h *Handler) Get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, b)
}

// Create handles POST /api/v1/bookings
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, resp)
}

// Cancel handles POST /api/v1/bookings/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	b, err := h.service.Cancel(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, b)
}

// Complete handles POST /api/v1/bookings/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	b, err := h.service.Complete(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, b)
}

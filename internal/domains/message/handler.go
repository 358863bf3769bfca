package message

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

// Send handles POST /api/v1/messages
func (h *Handler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}

	m, err := h.service.Send(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, m)
}

// ListConversation handles GET /api/v1/messages?hotelId=...&customerId=...
func (h *Handler) ListConversation(c *gin.Context) {
	opts, err := query.Parse(c.Request.URL.Query(), SortFields)
	if err != nil {
		response.Fail(c, err)
		return
	}
	hotelID, _ := opts.PopFilter("hotelId")
	customerID, _ := opts.PopFilter("customerId")
	if hotelID == "" {
		response.Fail(c, apperror.Validation("hotelId is required", nil))
		return
	}

	result, err := h.service.ListConversation(c.Request.Context(), middleware.Actor(c), hotelID, customerID, opts)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.List(c, result.Data, result.Metadata)
}

// MarkRead handles POST /api/v1/messages/read?hotelId=...&customerId=...
func (h *Handler) MarkRead(c *gin.Context) {
	hotelID := c.Query("hotelId")
	if hotelID == "" {
		response.Fail(c, apperror.Validation("hotelId is required", nil))
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), middleware.Actor(c), hotelID, c.Query("customerId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"read": n})
}

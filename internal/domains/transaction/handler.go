package transaction

import (
	"github.com/gin-gonic/gin"

	"stayhub-backend/internal/payment/paylink"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/middleware"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/response"
	"stayhub-backend/pkg/logger"
)

type Handler struct {
	service Service
	gateway paylink.Gateway
}

func NewHandler(service Service, gateway paylink.Gateway) *Handler {
	return &Handler{service: service, gateway: gateway}
}

// List handles GET /api/v1/transactions
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

// Get handles GET /api/v1/transactions/:id
func (h *Handler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, t)
}

// Webhook handles GET /webhooks/paylink, the provider's server-to-server
// callback. Unauthenticated; trust comes from the HMAC signature.
func (h *Handler) Webhook(c *gin.Context) {
	params, err := paylink.ParseWebhookParams(c.Request.URL.RawQuery)
	if err != nil {
		response.Fail(c, apperror.Validation(err.Error(), nil))
		return
	}
	if !h.gateway.VerifyCallback(params) {
		logger.Warn("payment callback with bad signature", map[string]interface{}{
			"reference": params["reference"],
		})
		response.Fail(c, apperror.Unauthorized("invalid signature"))
		return
	}

	if err := h.service.Settle(c.Request.Context(), params["reference"], params["resultCode"]); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"received": true})
}

package revenue

import (
	"net/http"

	"github.com/gin-gonic/gin"

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

// List handles GET /api/v1/revenue
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

// Get handles GET /api/v1/revenue/:id
func (h *Handler) Get(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, r)
}

// Aggregate handles POST /api/v1/revenue/aggregate?period=YYYY-MM (admin),
// the manual trigger for the scheduled job.
func (h *Handler) Aggregate(c *gin.Context) {
	hotels, err := h.service.Aggregate(c.Request.Context(), c.Query("period"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"hotels": hotels})
}

// Export handles GET /api/v1/revenue/export?period=YYYY-MM (admin).
func (h *Handler) Export(c *gin.Context) {
	data, filename, err := h.service.ExportXLSX(c.Request.Context(), middleware.Actor(c), c.Query("period"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

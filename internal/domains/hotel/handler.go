package hotel

import (
	"io"

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

// List handles GET /api/v1/hotels
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

// ListMine handles GET /api/v1/hotels/mine
func (h *Handler) ListMine(c *gin.Context) {
	opts, err := query.Parse(c.Request.URL.Query(), SortFields)
	if err != nil {
		response.Fail(c, err)
		return
	}

	result, err := h.service.ListMine(c.Request.Context(), opts, middleware.Actor(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.List(c, result.Data, result.Metadata)
}

// Get handles GET /api/v1/hotels/:id
func (h *Handler) Get(c *gin.Context) {
	hotel, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, hotel)
}

// Create handles POST /api/v1/hotels
func (h *Handler) Create(c *gin.Context) {
	var req CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}

	hotel, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, hotel)
}

// Update handles PATCH /api/v1/hotels/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}

	hotel, err := h.service.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, hotel)
}

// Delete handles DELETE /api/v1/hotels/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// Restore handles POST /api/v1/hotels/:id/restore
func (h *Handler) Restore(c *gin.Context) {
	hotel, err := h.service.Restore(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, hotel)
}

// UploadImage handles POST /api/v1/hotels/:id/images (multipart, field "image")
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Fail(c, apperror.Validation("image file is required", nil))
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Fail(c, apperror.Validation("cannot read uploaded file", nil))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.Fail(c, apperror.Validation("cannot read uploaded file", nil))
		return
	}

	hotel, err := h.service.UploadImage(c.Request.Context(), middleware.Actor(c), c.Param("id"), data)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, hotel)
}

// RemoveImage handles DELETE /api/v1/hotels/:id/images?key=...
// Keys contain slashes, so the key travels as a query parameter.
func (h *Handler) RemoveImage(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		response.Fail(c, apperror.Validation("image key is required", nil))
		return
	}
	hotel, err := h.service.RemoveImage(c.Request.Context(), middleware.Actor(c), c.Param("id"), key)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, hotel)
}

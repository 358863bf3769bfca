package user

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

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

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}
	if err := req.Validate(); err != nil {
		response.Fail(c, validationError(err))
		return
	}

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, dto)
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}
	if err := req.Validate(); err != nil {
		response.Fail(c, validationError(err))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}
	if err := req.Validate(); err != nil {
		response.Fail(c, validationError(err))
		return
	}

	resp, err := h.service.RefreshToken(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, resp)
}

// Logout handles POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Fail(c, apperror.Unauthorized("missing bearer token"))
		return
	}

	if err := h.service.Logout(c.Request.Context(), parts[1]); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"message": "logged out"})
}

// GetProfile handles GET /api/v1/users/me
func (h *Handler) GetProfile(c *gin.Context) {
	actorID, err := actorUUID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	dto, err := h.service.GetProfile(c.Request.Context(), actorID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, dto)
}

// UpdateProfile handles PATCH /api/v1/users/me
func (h *Handler) UpdateProfile(c *gin.Context) {
	actorID, err := actorUUID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}
	if err := req.Validate(); err != nil {
		response.Fail(c, validationError(err))
		return
	}

	dto, err := h.service.UpdateProfile(c.Request.Context(), actorID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, dto)
}

// ChangePassword handles PATCH /api/v1/users/me/password
func (h *Handler) ChangePassword(c *gin.Context) {
	actorID, err := actorUUID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}
	if err := req.Validate(); err != nil {
		response.Fail(c, validationError(err))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), actorID, req); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"message": "password changed"})
}

// ListUsers handles GET /api/v1/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	opts, err := query.Parse(c.Request.URL.Query(), SortFields)
	if err != nil {
		response.Fail(c, err)
		return
	}

	users, metadata, err := h.service.ListUsers(c.Request.Context(), opts)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.List(c, users, metadata)
}

// UpdateUserRole handles PATCH /api/v1/admin/users/:id/role
func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, apperror.Validation("invalid user id", nil))
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}
	if err := req.Validate(); err != nil {
		response.Fail(c, validationError(err))
		return
	}

	if err := h.service.UpdateUserRole(c.Request.Context(), id, req.Role); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"message": "role updated"})
}

// UpdateUserStatus handles PATCH /api/v1/admin/users/:id/status
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, apperror.Validation("invalid user id", nil))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("malformed request body", nil))
		return
	}
	if err := req.Validate(); err != nil {
		response.Fail(c, validationError(err))
		return
	}

	if err := h.service.UpdateUserStatus(c.Request.Context(), id, *req.IsActive); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, gin.H{"message": "status updated"})
}

func actorUUID(c *gin.Context) (uuid.UUID, error) {
	actor := middleware.Actor(c)
	if actor == nil {
		return uuid.Nil, apperror.Unauthorized("authentication required")
	}
	id, err := uuid.Parse(actor.ID)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("invalid actor id")
	}
	return id, nil
}

func validationError(err error) error {
	return apperror.FromValidation(err)
}

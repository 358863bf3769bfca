package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/store"
	"stayhub-backend/pkg/logger"
)

// Success envelope: {data, statusCode}, or {data, metadata, statusCode}
// for paginated lists.
type Body struct {
	Data       interface{}     `json:"data"`
	Metadata   *store.Metadata `json:"metadata,omitempty"`
	StatusCode int             `json:"statusCode"`
}

type ErrorBody struct {
	Error      ErrorDetail `json:"error"`
	StatusCode int         `json:"statusCode"`
}

type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Data: data, StatusCode: http.StatusOK})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Data: data, StatusCode: http.StatusCreated})
}

func List(c *gin.Context, data interface{}, metadata store.Metadata) {
	c.JSON(http.StatusOK, Body{Data: data, Metadata: &metadata, StatusCode: http.StatusOK})
}

// Fail renders any error through the apperror taxonomy. Internal errors are
// logged with their cause; the client only sees the generic message.
func Fail(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Code == apperror.CodeInternal {
		logger.Error("request failed", appErr.Err)
	}
	c.JSON(appErr.HTTPStatus, ErrorBody{
		Error: ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
		StatusCode: appErr.HTTPStatus,
	})
}

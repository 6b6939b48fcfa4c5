package util

import (
	"net/http"

	"roadmap_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody is the flat error shape of the roadmap endpoint.
type ErrorBody struct {
	Error string `json:"error"`
}

// FormatErrorBody carries the normalized model text; raw is always present,
// even when empty.
type FormatErrorBody struct {
	Error string `json:"error"`
	Raw   string `json:"raw"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err), zap.String("request_id", RequestIDFromContext(c)))
	InternalServerError(c)
}

// AbortJSON writes one of the flat error bodies used by the roadmap endpoint.
func AbortJSON(c *gin.Context, code int, body interface{}) {
	c.AbortWithStatusJSON(code, body)
}

// RawJSON writes an already-encoded JSON document.
func RawJSON(c *gin.Context, code int, body []byte) {
	c.Data(code, MimeJSON, body)
}

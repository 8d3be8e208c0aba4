package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API response
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// RequestIDKey is the gin context key the request id middleware sets
const RequestIDKey = "request_id"

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response. An optional cause is reported in the
// error field.
func Error(c *gin.Context, code int, message string, cause ...error) {
	resp := Response{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
	}
	if len(cause) > 0 && cause[0] != nil {
		resp.Error = cause[0].Error()
		c.Error(cause[0])
	}
	c.AbortWithStatusJSON(code, resp)
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string, cause ...error) {
	Error(c, http.StatusBadRequest, message, cause...)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string, cause ...error) {
	Error(c, http.StatusNotFound, message, cause...)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string, cause ...error) {
	Error(c, http.StatusInternalServerError, message, cause...)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string, cause ...error) {
	Error(c, http.StatusServiceUnavailable, message, cause...)
}

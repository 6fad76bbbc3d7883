package response

import (
	"net/http"
	"time"

	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIResponse is the envelope of every JSON body the API returns.
// Error carries the machine-readable kind of a failure, e.g. "insufficient_stock".
type APIResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    interface{}           `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
	Warning string                `json:"warning,omitempty"`
	Meta    *Meta                 `json:"meta,omitempty"`
}

type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func send(c *gin.Context, status int, body APIResponse) {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	body.Meta = &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
	c.JSON(status, body)
}

// OK sends a 200 with data
func OK(c *gin.Context, message string, data interface{}) {
	send(c, http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// Created sends a 201 with data
func Created(c *gin.Context, message string, data interface{}) {
	send(c, http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

// SuccessWithWarning reports a success whose side effect (invoice, printing) degraded
func SuccessWithWarning(c *gin.Context, status int, message string, data interface{}, warning string) {
	send(c, status, APIResponse{Success: true, Message: message, Data: data, Warning: warning})
}

func SuccessWithPagination[T any](c *gin.Context, status int, message string, result *pagination.PaginatedResult[T]) {
	send(c, status, APIResponse{Success: true, Message: message, Data: result})
}

// Error maps err to its status and kind. Unknown errors become a 500.
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	send(c, appErr.Code, APIResponse{
		Message: appErr.Message,
		Error:   string(appErr.Kind),
		Errors:  appErr.Errors,
	})
}

func ErrorWithCode(c *gin.Context, status int, message string) {
	send(c, status, APIResponse{Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	send(c, http.StatusUnauthorized, APIResponse{Message: message, Error: string(apperror.KindUnauthorized)})
}

func BadRequest(c *gin.Context, message string) {
	send(c, http.StatusBadRequest, APIResponse{Message: message, Error: string(apperror.KindBadRequest)})
}

func InternalServerError(c *gin.Context, message string) {
	send(c, http.StatusInternalServerError, APIResponse{Message: message, Error: string(apperror.KindInternal)})
}

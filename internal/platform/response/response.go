package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawfect-care/service-marketplace/internal/domain"
)

// envelope is the common shape of all API responses.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
	Meta    *metaBody   `json:"meta,omitempty"`
}

type errorBody struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	CurrentState string `json:"current_state,omitempty"`
}

type metaBody struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    items,
		Meta:    &metaBody{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Error:   &errorBody{Code: string(domain.KindValidation), Message: message},
	})
}

// Unauthorized writes a 401 response with the given message.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, envelope{
		Success: false,
		Error:   &errorBody{Code: string(domain.KindUnauthorized), Message: message},
	})
}

// Error maps a domain error to its HTTP status. Unclassified errors become 500
// with a generic message so internals never leak to callers.
func Error(c *gin.Context, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		c.JSON(http.StatusInternalServerError, envelope{
			Success: false,
			Error:   &errorBody{Code: string(domain.KindInternal), Message: "internal server error"},
		})
		return
	}

	body := &errorBody{
		Code:         string(domainErr.Kind),
		Message:      domainErr.Message,
		CurrentState: domainErr.CurrentState,
	}

	var status int
	switch domainErr.Kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindUnauthorized:
		status = http.StatusUnauthorized
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindInvalidState:
		status = http.StatusConflict
	case domain.KindConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		body.Message = "internal server error"
	}

	c.JSON(status, envelope{Success: false, Error: body})
}

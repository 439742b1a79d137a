package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/freshcart-backend/internal/app/repository"
	"github.com/ikkim/freshcart-backend/internal/app/service"
)

// ErrorInfo is the client facing view of an error
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

// ParseError maps service and repository errors to a response
func ParseError(err error) ErrorInfo {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ValidationInvalidInput,
			Message: verr.Error(),
			Fields:  map[string]string{verr.Field: verr.Message},
		}
	}

	if errors.Is(err, service.ErrProductNotFound) {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ProductNotFound,
			Message: "Product not found",
		}
	}

	var perr *repository.PersistenceError
	if errors.As(err, &perr) {
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    InternalStoreError,
			Message: "Storage is temporarily unavailable",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: "Something went wrong, please try again later",
	}
}

// Respond writes the response ParseError selects for err
func Respond(c *gin.Context, err error) {
	info := ParseError(err)
	if info.Fields != nil {
		c.JSON(info.Status, ValidationErrorResponse{
			Error:   info.Code,
			Message: info.Message,
			Fields:  info.Fields,
		})
		return
	}
	c.JSON(info.Status, ErrorResponse{Error: info.Code, Message: info.Message})
}

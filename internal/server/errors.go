package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	billdomain "github.com/smallbiznis/cablebill/internal/bill/domain"
	boxdomain "github.com/smallbiznis/cablebill/internal/boxaction/domain"
	customerdomain "github.com/smallbiznis/cablebill/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/cablebill/internal/ledger/domain"
	paymentdomain "github.com/smallbiznis/cablebill/internal/payment/domain"
	plandomain "github.com/smallbiznis/cablebill/internal/plan/domain"
	settlementdomain "github.com/smallbiznis/cablebill/internal/settlement/domain"
)

// APIError is the wire representation of a request failure.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

var (
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "resource not found",
	}
	ErrServiceUnavailable = &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "service_unavailable",
		Message: "service unavailable",
	}
)

func invalidRequestError() *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "invalid request body",
	}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

var notFoundErrors = []error{
	customerdomain.ErrNotFound,
	plandomain.ErrNotFound,
	billdomain.ErrNotFound,
	paymentdomain.ErrNotFound,
	settlementdomain.ErrNotFound,
	ledgerdomain.ErrNotFound,
}

var conflictErrors = []error{
	billdomain.ErrNumberConflict,
	paymentdomain.ErrNumberConflict,
	ledgerdomain.ErrNumberConflict,
}

var validationErrors = []error{
	customerdomain.ErrInvalidName,
	customerdomain.ErrInvalidEmail,
	customerdomain.ErrInvalidID,
	plandomain.ErrInvalidID,
	plandomain.ErrEmptyPlanSet,
	plandomain.ErrInvalidRefDate,
	billdomain.ErrInvalidCustomer,
	billdomain.ErrInvalidBillDate,
	billdomain.ErrInvalidAmount,
	billdomain.ErrInvalidID,
	paymentdomain.ErrInvalidCustomer,
	paymentdomain.ErrInvalidAmount,
	paymentdomain.ErrInvalidMethod,
	paymentdomain.ErrInvalidID,
	paymentdomain.ErrBillMismatch,
	settlementdomain.ErrInvalidCustomer,
	settlementdomain.ErrInvalidAmount,
	settlementdomain.ErrInvalidID,
	settlementdomain.ErrBillMismatch,
	boxdomain.ErrInvalidCustomer,
	boxdomain.ErrInvalidAction,
	ledgerdomain.ErrInvalidCustomer,
	ledgerdomain.ErrInvalidID,
}

// AbortWithError maps a service error onto an HTTP status and writes the
// JSON error body.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": &APIError{
				Status:  http.StatusBadRequest,
				Code:    sentinel.Error(),
				Message: sentinel.Error(),
			}})
			return
		}
	}
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": &APIError{
				Status:  http.StatusNotFound,
				Code:    sentinel.Error(),
				Message: sentinel.Error(),
			}})
			return
		}
	}
	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": &APIError{
				Status:  http.StatusConflict,
				Code:    sentinel.Error(),
				Message: sentinel.Error(),
			}})
			return
		}
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "internal server error",
	}})
}

// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// User service specific errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidUserID     = errors.New("invalid user ID")
	ErrStatusConflict    = errors.New("user status changed concurrently")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrEscalationAborted = errors.New("escalation aborted")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrValidationFailed  = errors.New("validation failed")
)

// Error codes
const (
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeInvalidUserID    = "INVALID_USER_ID"
	CodeStatusConflict   = "STATUS_CONFLICT"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// StatusCode maps a service error to its HTTP status
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidUserID), errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, ErrStatusConflict):
		return http.StatusConflict
	case errors.Is(err, ErrDatabaseOperation):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func code(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrStatusConflict):
		return CodeStatusConflict
	case errors.Is(err, ErrDatabaseOperation):
		return CodeDatabaseError
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrValidationFailed):
		return CodeValidationFailed
	default:
		return CodeInternalError
	}
}

// HandleServiceError handles service errors and returns appropriate HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	status := StatusCode(err)
	message := http.StatusText(status)
	if status == http.StatusInternalServerError {
		message = "An unexpected error occurred"
	}
	return c.Status(status).JSON(ErrorResponse{
		Code:    code(err),
		Message: message,
		Details: err.Error(),
	})
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	})
}

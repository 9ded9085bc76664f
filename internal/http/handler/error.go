package handler

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"notesapi/internal/http/middleware"
	"notesapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "VALIDATION_ERROR", "NOT_FOUND")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates the service error taxonomy into the response
// envelope. The taxonomy messages are written for end users and carry the
// underlying failure, so they pass through verbatim.
func writeServiceError(c *fiber.Ctx, err error) error {
	var validationErr *service.ValidationError
	var authErr *service.AuthError
	var fetchErr *service.FetchError
	var blobErr *service.BlobError
	var writeErr *service.WriteError

	switch {
	case errors.As(err, &validationErr):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message)
	case errors.Is(err, service.ErrEmailTaken):
		return writeError(c, fiber.StatusConflict, "AUTH_ERROR", service.ErrEmailTaken.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "AUTH_ERROR", service.ErrInvalidCredentials.Message)
	case errors.As(err, &authErr):
		return writeError(c, fiber.StatusUnauthorized, "AUTH_ERROR", authErr.Message)
	case errors.As(err, &blobErr):
		return writeError(c, fiber.StatusBadGateway, "BLOB_ERROR", blobErr.Error())
	case errors.As(err, &writeErr):
		return writeError(c, fiber.StatusInternalServerError, "WRITE_ERROR", writeErr.Error())
	case errors.As(err, &fetchErr):
		if errors.Is(err, sql.ErrNoRows) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "note not found")
		}
		return writeError(c, fiber.StatusInternalServerError, "FETCH_ERROR", fetchErr.Error())
	case errors.Is(err, sql.ErrNoRows):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "note not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

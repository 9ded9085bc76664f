package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id across service boundaries.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the request id lives in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID tags every request with an id. An incoming X-Request-ID is kept,
// otherwise a fresh UUID is generated. The id is stored in context locals for
// the request logger and the error envelope, and echoed on the response so
// the caller can quote it back.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}

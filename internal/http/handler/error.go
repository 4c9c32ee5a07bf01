package handler

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rajpatel923/Study-Solution-sub001/internal/http/middleware"
)

// errorPayload is the error body for all routes: a single human-readable
// message naming the violated constraint. Internal error detail is logged
// server-side and never returned to the caller.
type errorPayload struct {
	Message string `json:"message"`
}

const (
	msgInvalidID     = "Invalid document ID"
	msgNotFound      = "Document not found"
	msgNoFile        = "No file uploaded"
	msgInvalidBody   = "Invalid request body"
	msgInternalError = "Internal server error"
)

// writeError writes the standardized JSON error response without leaking
// internal errors.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Message: message})
}

// logInternalError records the underlying error as a JSON line correlated
// with the request. This is the only place internal error detail goes; the
// response body carries the generic message.
func logInternalError(c *fiber.Ctx, op string, err error) {
	rid, _ := c.Locals(middleware.RequestIDLocalKey).(string)

	entry := map[string]any{
		"ts":         time.Now().UTC().Format(time.RFC3339Nano),
		"level":      "error",
		"msg":        op,
		"request_id": rid,
		"method":     c.Method(),
		"path":       c.Path(),
		"error":      err.Error(),
	}
	if b, e := json.Marshal(entry); e == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for errors escaping route handlers (unknown routes, method
// mismatches, panics surfaced as errors).
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "Bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "Resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method not allowed")
		default:
			logInternalError(c, "unhandled error", err)
			return writeError(c, status, msgInternalError)
		}
	}
}

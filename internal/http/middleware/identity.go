package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rajpatel923/Study-Solution-sub001/internal/model"
)

const (
	// UserIDHeader carries a gateway-verified caller id.
	UserIDHeader = "X-User-Id"
	// UserNameHeader carries the matching display name.
	UserNameHeader = "X-User-Name"
	// IdentityLocalKey is the key used to store the resolved identity in Fiber's context locals.
	IdentityLocalKey = "identity"
)

// Identity resolves the caller identity exactly once per request and stores
// it in context locals for handlers to pass explicitly into the service.
//
// Behavior:
// - Reads X-User-Id / X-User-Name (set by a trusted gateway after verifying
//   session state).
// - Falls back to the configured placeholder identity until a real
//   authentication provider is wired in.
func Identity(defaultUserID, defaultUserName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := model.Identity{
			UserID:   c.Get(UserIDHeader),
			UserName: c.Get(UserNameHeader),
		}
		if id.UserID == "" {
			id.UserID = defaultUserID
			id.UserName = defaultUserName
		} else if id.UserName == "" {
			id.UserName = defaultUserName
		}

		c.Locals(IdentityLocalKey, id)

		return c.Next()
	}
}

// IdentityFromCtx extracts the identity previously stored by Identity.
// The zero Identity is returned when the middleware did not run.
func IdentityFromCtx(c *fiber.Ctx) model.Identity {
	if v, ok := c.Locals(IdentityLocalKey).(model.Identity); ok {
		return v
	}
	return model.Identity{}
}

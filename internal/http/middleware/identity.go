package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"complyhub/internal/model"
)

const (
	TenantHeader = "X-Tenant-ID"
	UserHeader   = "X-User-ID"
	RoleHeader   = "X-Role"

	callerLocalKey = "caller"
)

// Identity builds the caller from gateway-supplied headers. Authentication happens
// upstream; a request without a tenant is rejected with 401.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := model.Caller{
			TenantID: strings.TrimSpace(c.Get(TenantHeader)),
			UserID:   strings.TrimSpace(c.Get(UserHeader)),
			Role:     model.Role(strings.ToLower(strings.TrimSpace(c.Get(RoleHeader)))),
		}
		if caller.TenantID == "" || caller.UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "tenant and user identity are required")
		}
		c.Locals(callerLocalKey, caller)
		return c.Next()
	}
}

// CallerFrom returns the caller stored by Identity, or the zero Caller.
func CallerFrom(c *fiber.Ctx) model.Caller {
	caller, _ := c.Locals(callerLocalKey).(model.Caller)
	return caller
}

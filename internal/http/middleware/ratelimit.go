package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"complyhub/internal/apperr"
	"complyhub/internal/ratelimit"
)

// Policy is a request-level limit for one class of routes.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// RateLimit enforces policy per tenant and user, falling back to the client IP when
// there is no caller. Limiter failures are logged and the request is let through.
func RateLimit(limiter ratelimit.WindowLimiter, policy Policy, log logrus.FieldLogger) fiber.Handler {
	log = log.WithFields(logrus.Fields{"component": "ratelimit", "policy": policy.Name})

	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if caller := CallerFrom(c); caller.TenantID != "" {
			key = caller.TenantID + ":" + caller.UserID
		}

		res, err := limiter.Allow(c.UserContext(), policy.Name+":"+key, policy.Limit, policy.Window)
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			return apperr.RateLimit(fmt.Sprintf("too many %s requests", policy.Name), res.RetryAfter)
		}
		return c.Next()
	}
}

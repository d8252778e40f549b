package handler

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"complyhub/internal/apperr"
	"complyhub/internal/http/middleware"
)

// errorPayload is the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeError writes a standardized JSON error response. message must be safe to show.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeFieldError(c, status, code, message, "")
}

func writeFieldError(c *fiber.Ctx, status int, code, message, field string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error:     errorEnvelope{Code: code, Message: message, Field: field},
	})
}

type kindMapping struct {
	status int
	code   string
}

var kindStatus = map[apperr.Kind]kindMapping{
	apperr.KindValidation:        {fiber.StatusBadRequest, "VALIDATION_ERROR"},
	apperr.KindConflict:          {fiber.StatusConflict, "CONFLICT"},
	apperr.KindNotFound:          {fiber.StatusNotFound, "NOT_FOUND"},
	apperr.KindForbidden:         {fiber.StatusForbidden, "FORBIDDEN"},
	apperr.KindInvalidTransition: {fiber.StatusUnprocessableEntity, "INVALID_TRANSITION"},
	apperr.KindRateLimit:         {fiber.StatusTooManyRequests, "RATE_LIMITED"},
	apperr.KindTimeout:           {fiber.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"},
	apperr.KindProtocol:          {fiber.StatusBadGateway, "UPSTREAM_ERROR"},
	apperr.KindConfiguration:     {fiber.StatusInternalServerError, "CONFIGURATION_ERROR"},
}

// writeAppError maps a service error to its status. Internal errors are logged and
// answered with a generic message.
func writeAppError(c *fiber.Ctx, log logrus.FieldLogger, err error) error {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.RequestIDFrom(c),
			"path":       c.Path(),
		}).Error("internal error")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	m, ok := kindStatus[e.Kind]
	if !ok {
		m = kindMapping{fiber.StatusInternalServerError, "INTERNAL_ERROR"}
	}
	if e.Kind == apperr.KindRateLimit {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds(e)))
	}
	return writeFieldError(c, m.status, m.code, e.Message, e.Field)
}

func retryAfterSeconds(e *apperr.Error) int {
	s := int(math.Ceil(e.RetryAfter.Seconds()))
	if s < 1 {
		s = 1
	}
	return s
}

// ErrorHandler is the Fiber global error handler. It covers errors returned by
// middleware and routing as well as service errors that reach it unhandled.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return writeAppError(c, log, err)
		}

		switch fe.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, fe.Code, "UNAUTHORIZED", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}

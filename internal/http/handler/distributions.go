package handler

import (
	"github.com/gofiber/fiber/v2"

	"complyhub/internal/apperr"
	"complyhub/internal/service"
)

// Distribute routes a document to recipients for acknowledgment.
//
//	@Summary	Distribute a document
//	@Tags		distributions
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string					true	"document id"
//	@Param		body	body	service.DistributeInput	true	"recipients"
//	@Success	201		{array}	model.Distribution
//	@Router		/api/v1/documents/{id}/distributions [post]
func Distribute(svc service.SchedulerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		var in service.DistributeInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		rows, err := svc.Distribute(c.UserContext(), caller(c), id, in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(rows)
	}
}

// ListDistributions lists a document's distributions with their state.
//
//	@Summary	List distributions
//	@Tags		distributions
//	@Produce	json
//	@Param		id	path	string	true	"document id"
//	@Success	200	{array}	service.DistributionView
//	@Router		/api/v1/documents/{id}/distributions [get]
func ListDistributions(svc service.SchedulerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		rows, err := svc.ListDistributions(c.UserContext(), caller(c), id)
		if err != nil {
			return err
		}
		return c.JSON(rows)
	}
}

// Remind re-notifies every recipient that has not acknowledged.
//
//	@Summary	Remind pending recipients
//	@Tags		distributions
//	@Produce	json
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	map[string]int
//	@Failure	429	{object}	errorPayload
//	@Router		/api/v1/documents/{id}/remind [post]
func Remind(svc service.SchedulerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		n, err := svc.Remind(c.UserContext(), caller(c), id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"reminded": n})
	}
}

// Acknowledge confirms receipt of a distribution.
//
//	@Summary	Acknowledge a distribution
//	@Tags		distributions
//	@Produce	json
//	@Param		id	path		string	true	"distribution id"
//	@Success	200	{object}	model.Distribution
//	@Router		/api/v1/distributions/{id}/acknowledge [post]
func Acknowledge(svc service.SchedulerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		d, err := svc.Acknowledge(c.UserContext(), caller(c), id)
		if err != nil {
			return err
		}
		return c.JSON(d)
	}
}

// Reviews buckets documents by review urgency.
//
//	@Summary	Review schedule
//	@Tags		reviews
//	@Produce	json
//	@Param		days	query		int	false	"look-ahead in days (default 30)"
//	@Success	200		{object}	service.ReviewBuckets
//	@Router		/api/v1/reviews [get]
func Reviews(svc service.SchedulerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days, err := queryInt(c, "days", 0)
		if err != nil {
			return apperr.Validation("days", "must be a number")
		}
		buckets, err := svc.Reviews(c.UserContext(), caller(c), days)
		if err != nil {
			return err
		}
		return c.JSON(buckets)
	}
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"complyhub/internal/apperr"
	"complyhub/internal/service"
)

// SummarizeAll scores all elements, weakest first.
//
//	@Summary	Evidence summary
//	@Tags		evidence
//	@Produce	json
//	@Success	200	{array}	model.ElementEvidenceSummary
//	@Router		/api/v1/evidence/summary [get]
func SummarizeAll(svc service.EvidenceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.SummarizeAll(c.UserContext(), caller(c))
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// SummarizeElement scores a single element.
//
//	@Summary	Element evidence
//	@Tags		evidence
//	@Produce	json
//	@Param		number	path		int	true	"element number (1-14)"
//	@Success	200		{object}	model.ElementEvidenceSummary
//	@Router		/api/v1/evidence/elements/{number} [get]
func SummarizeElement(svc service.EvidenceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, ok := intParam(c, "number")
		if !ok {
			return apperr.Validation("element_number", "must be a number")
		}
		out, err := svc.SummarizeElement(c.UserContext(), caller(c), n)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// RecordEvidence stores a non-document evidence record.
//
//	@Summary	Record evidence
//	@Tags		evidence
//	@Accept		json
//	@Produce	json
//	@Param		body	body		service.RecordEvidenceInput	true	"record"
//	@Success	201		{object}	model.EvidenceRecord
//	@Router		/api/v1/evidence/records [post]
func RecordEvidence(svc service.EvidenceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RecordEvidenceInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		rec, err := svc.RecordEvidence(c.UserContext(), caller(c), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

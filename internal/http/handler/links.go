package handler

import (
	"github.com/gofiber/fiber/v2"

	"complyhub/internal/apperr"
	"complyhub/internal/service"
)

type linkRequest struct {
	ElementNumber int `json:"element_number"`
}

// ListLinks returns the element links of a document.
//
//	@Summary	List element links
//	@Tags		links
//	@Produce	json
//	@Param		id	path	string	true	"document id"
//	@Success	200	{array}	model.AuditElementLink
//	@Router		/api/v1/documents/{id}/links [get]
func ListLinks(svc service.LinkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		links, err := svc.ListLinks(c.UserContext(), caller(c), id)
		if err != nil {
			return err
		}
		return c.JSON(links)
	}
}

// CreateLink asserts a manual link, replacing any auto link for the same element.
//
//	@Summary	Link a document to an element
//	@Tags		links
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"document id"
//	@Param		body	body		linkRequest	true	"element"
//	@Success	201		{object}	model.AuditElementLink
//	@Router		/api/v1/documents/{id}/links [post]
func CreateLink(svc service.LinkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req linkRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		link, err := svc.ManualLink(c.UserContext(), caller(c), id, req.ElementNumber)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(link)
	}
}

// DeleteLink removes the link between a document and an element.
//
//	@Summary	Unlink a document from an element
//	@Tags		links
//	@Param		id		path	string	true	"document id"
//	@Param		element	path	int		true	"element number"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/documents/{id}/links/{element} [delete]
func DeleteLink(svc service.LinkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		element, ok := intParam(c, "element")
		if !ok {
			return apperr.Validation("element_number", "must be a number")
		}
		if err := svc.Unlink(c.UserContext(), caller(c), id, element); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

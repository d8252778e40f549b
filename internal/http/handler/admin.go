package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"complyhub/internal/apperr"
	"complyhub/internal/service"
)

// ListMappings lists evidence mappings; ?active=true hides disabled ones.
//
//	@Summary	List evidence mappings
//	@Tags		admin
//	@Produce	json
//	@Param		active	query	bool	false	"only active mappings"
//	@Success	200		{array}	model.EvidenceMapping
//	@Router		/api/v1/admin/mappings [get]
func ListMappings(svc service.MappingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		activeOnly := false
		if raw := c.Query("active"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return apperr.Validation("active", "must be a boolean")
			}
			activeOnly = v
		}
		out, err := svc.List(c.UserContext(), caller(c), activeOnly)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

//	@Summary	Create an evidence mapping
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		body	body		service.MappingInput	true	"mapping"
//	@Success	201		{object}	model.EvidenceMapping
//	@Router		/api/v1/admin/mappings [post]
func CreateMapping(svc service.MappingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.MappingInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		m, err := svc.Create(c.UserContext(), caller(c), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

//	@Summary	Update an evidence mapping
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"mapping id"
//	@Param		body	body		service.MappingPatch	true	"fields to change"
//	@Success	200		{object}	model.EvidenceMapping
//	@Router		/api/v1/admin/mappings/{id} [patch]
func UpdateMapping(svc service.MappingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		var patch service.MappingPatch
		if err := c.BodyParser(&patch); err != nil {
			return invalidBody(c)
		}
		m, err := svc.Update(c.UserContext(), caller(c), id, patch)
		if err != nil {
			return err
		}
		return c.JSON(m)
	}
}

// SyncTenant pushes the tenant's evidence to the external audit system.
//
//	@Summary	Sync evidence
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	syncclient.BulkResult
//	@Failure	502	{object}	errorPayload
//	@Router		/api/v1/admin/sync [post]
func SyncTenant(svc service.SyncService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.SyncTenant(c.UserContext(), caller(c))
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// ReindexTenant re-extracts and re-links the tenant's documents. The body is optional.
//
//	@Summary	Reindex documents
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		body	body		service.ReindexOptions	false	"options"
//	@Success	200		{object}	service.ReindexSummary
//	@Failure	429		{object}	errorPayload
//	@Router		/api/v1/admin/reindex [post]
func ReindexTenant(svc service.ReindexService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var opts service.ReindexOptions
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&opts); err != nil {
				return invalidBody(c)
			}
		}
		summary, err := svc.ReindexTenant(c.UserContext(), caller(c), opts)
		if err != nil {
			return err
		}
		return c.JSON(summary)
	}
}

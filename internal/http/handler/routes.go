package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"complyhub/internal/config"
	"complyhub/internal/http/middleware"
	"complyhub/internal/ratelimit"
	"complyhub/internal/service"
)

// Pinger is what the readiness probe needs from the database.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB         Pinger
	Documents  service.DocumentService
	Links      service.LinkerService
	Evidence   service.EvidenceService
	Mappings   service.MappingService
	Sync       service.SyncService
	Scheduler  service.SchedulerService
	Reindex    service.ReindexService
	Limiter    ratelimit.WindowLimiter
	RateLimits config.RateLimitConfig
	Log        logrus.FieldLogger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Everything under
// /api/v1 requires gateway identity headers.
func RegisterRoutes(app *fiber.App, d Deps) {
	log := d.Log

	app.Get("/health", HealthCheck(d.DB, log))
	app.Get("/healthz", LivenessProbe())

	listLimit := limitRoute(d, "list", d.RateLimits.ListPerMinute)
	remindLimit := limitRoute(d, "remind", d.RateLimits.RemindPerMinute)

	api := app.Group("/api/v1", middleware.Identity())

	docs := api.Group("/documents")
	docs.Post("/", CreateDocument(d.Documents))
	docs.Get("/", listLimit, ListDocuments(d.Documents))
	docs.Get("/search", listLimit, SearchDocuments(d.Documents))
	docs.Get("/due-for-review", ListDueForReview(d.Documents))
	docs.Post("/supersede", SupersedeDocument(d.Documents))
	docs.Get("/:id", GetDocument(d.Documents))
	docs.Patch("/:id/status", SetDocumentStatus(d.Documents))
	docs.Get("/:id/related", FindRelated(d.Documents))
	docs.Post("/:id/versions", AddVersion(d.Documents))
	docs.Get("/:id/versions", ListVersions(d.Documents))
	docs.Get("/:id/versions/:number/download", DownloadVersion(d.Documents))
	docs.Get("/:id/links", ListLinks(d.Links))
	docs.Post("/:id/links", CreateLink(d.Links))
	docs.Delete("/:id/links/:element", DeleteLink(d.Links))
	docs.Post("/:id/distributions", Distribute(d.Scheduler))
	docs.Get("/:id/distributions", ListDistributions(d.Scheduler))
	docs.Post("/:id/remind", remindLimit, Remind(d.Scheduler))

	api.Post("/distributions/:id/acknowledge", Acknowledge(d.Scheduler))
	api.Get("/reviews", Reviews(d.Scheduler))

	ev := api.Group("/evidence")
	ev.Get("/summary", SummarizeAll(d.Evidence))
	ev.Get("/elements/:number", SummarizeElement(d.Evidence))
	ev.Post("/records", RecordEvidence(d.Evidence))

	admin := api.Group("/admin")
	admin.Get("/mappings", ListMappings(d.Mappings))
	admin.Post("/mappings", CreateMapping(d.Mappings))
	admin.Patch("/mappings/:id", UpdateMapping(d.Mappings))
	admin.Post("/sync", SyncTenant(d.Sync))
	admin.Post("/reindex", ReindexTenant(d.Reindex))
}

// limitRoute returns a pass-through handler when no limiter is configured.
func limitRoute(d Deps, name string, perMinute int) fiber.Handler {
	if d.Limiter == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.RateLimit(d.Limiter, middleware.Policy{Name: name, Limit: perMinute, Window: time.Minute}, d.Log)
}

// HealthCheck reports readiness by pinging the database.
//
//	@Summary	Readiness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	errorPayload
//	@Router		/health [get]
func HealthCheck(db Pinger, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.WithError(err).Warn("database ping failed")
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service unavailable")
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is up.
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Success	200
//	@Router		/healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

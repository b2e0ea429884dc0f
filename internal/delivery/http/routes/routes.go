package routes

import (
	"time"

	"campus-recruit/internal/delivery/http/handler"
	"campus-recruit/internal/delivery/http/middleware"
	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Options carries everything the HTTP surface is built from. Nil handlers are
// skipped so tests can mount a subset.
type Options struct {
	Auth       *middleware.AuthMiddleware
	Limiter    middleware.Limiter
	AuthLimit  int
	AuthWindow time.Duration

	Health    *handler.HealthHandler
	Pages     *handler.PageHandler
	AuthAPI   *handler.AuthHandler
	Jobs      *handler.JobsHandler
	Student   *handler.StudentHandler
	Recruiter *handler.RecruiterHandler
	Admin     *handler.AdminHandler
	Events    *ws.Handler
}

type Registry struct {
	opts Options
}

func NewRegistry(opts Options) *Registry {
	return &Registry{opts: opts}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerPages(app)
	r.registerEvents(app)
	r.registerAPI(app.Group("/api"))
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.opts.Health != nil {
		r.opts.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerPages(app *fiber.App) {
	if r.opts.Pages != nil {
		r.opts.Pages.RegisterRoutes(app)
	}
}

func (r *Registry) registerEvents(app *fiber.App) {
	if r.opts.Events != nil {
		r.opts.Events.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(api fiber.Router) {
	auth := r.opts.Auth

	if r.opts.AuthAPI != nil {
		limit := middleware.RateLimit(r.opts.Limiter, "auth", r.opts.AuthLimit, r.opts.AuthWindow)
		var me fiber.Handler
		if auth != nil {
			me = auth.Require("")
		}
		r.opts.AuthAPI.RegisterRoutes(api.Group("/auth"), limit, me)
	}

	if r.opts.Jobs != nil {
		r.opts.Jobs.RegisterRoutes(api)
	}

	if auth == nil {
		return
	}

	if r.opts.Student != nil {
		r.opts.Student.RegisterRoutes(api.Group("/student", auth.Require(account.RoleStudent)))
	}
	if r.opts.Recruiter != nil {
		r.opts.Recruiter.RegisterRoutes(
			api.Group("/recruiter"),
			auth.Require(account.RoleRecruiter),
			auth.Require(account.RoleRecruiter, r.opts.Recruiter.OwnsJob),
		)
	}
	if r.opts.Admin != nil {
		r.opts.Admin.RegisterRoutes(api.Group("/admin", auth.Require(account.RoleAdmin)))
	}
}

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-recruit/internal/config"
	"campus-recruit/internal/delivery/http/handler"
	"campus-recruit/internal/delivery/http/middleware"
	"campus-recruit/internal/delivery/http/routes"
	"campus-recruit/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	bodyLimit       = 12 << 20
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application on top of an initialised container.
func New(c *Container) *App {
	errMw := middleware.NewErrorMiddleware(c.Logger)
	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ErrorHandler:      errMw.Handler(),
		BodyLimit:         bodyLimit,
		StreamRequestBody: true,
	})

	registerGlobalMiddleware(f, c.Logger, errMw)
	routes.NewRegistry(routeOptions(c)).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and the HTTP app. The returned cleanup
// releases every external connection.
func Bootstrap(ctx context.Context, cfg config.Config, logger *zerolog.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zerolog.Logger, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(errMw.Middleware())
	app.Use(middleware.BodyLimit(bodyLimit))
}

func routeOptions(c *Container) routes.Options {
	auth := middleware.NewAuthMiddleware(c.JWT, c.Store.Accounts)

	var limiter middleware.Limiter = middleware.NewRateLimiter()
	if client := c.Cache.Client(); client != nil {
		limiter = middleware.NewRedisLimiter(client, limiter)
	}

	checks := map[string]handler.Pinger{}
	if c.DB != nil {
		checks["postgres"] = c.DB
	}
	if c.Cache.Client() != nil {
		checks["redis"] = c.Cache
	}

	return routes.Options{
		Auth:       auth,
		Limiter:    limiter,
		AuthLimit:  c.Config.RateLimit.AuthLimit,
		AuthWindow: c.Config.RateLimit.AuthWindow,

		Health:    handler.NewHealthHandler(checks),
		Pages:     handler.NewPageHandler(auth),
		AuthAPI:   handler.NewAuthHandler(c.Auth, c.Config.Auth.CookieSecure),
		Jobs:      handler.NewJobsHandler(c.JobList),
		Student:   handler.NewStudentHandler(c.Student),
		Recruiter: handler.NewRecruiterHandler(c.Recruiter),
		Admin:     handler.NewAdminHandler(c.Admin),
		Events:    ws.NewHandler(c.Hub, c.Logger),
	}
}

// Run serves on addr until ctx is canceled, then drains in-flight requests
// and stops the WebSocket hub.
func (a *App) Run(ctx context.Context, addr string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Container.Hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		a.Container.Logger.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := a.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Container.Logger.Info().Msg("shutting down HTTP server")
		return a.Fiber.ShutdownWithContext(shutdownCtx)
	})

	return g.Wait()
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

package handler

import (
	"fmt"
	"html"

	"campus-recruit/internal/delivery/http/middleware"
	"campus-recruit/internal/domain/account"

	"github.com/gofiber/fiber/v3"
)

// PageHandler serves the minimal HTML shells behind the public and role pages.
type PageHandler struct {
	auth *middleware.AuthMiddleware
}

func NewPageHandler(auth *middleware.AuthMiddleware) *PageHandler {
	return &PageHandler{auth: auth}
}

func (h *PageHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.page("Campus Recruitment"))
	r.Get(middleware.LoginPath, h.page("Login"))
	r.Get("/register", h.page("Register"))
	r.Get(middleware.UnauthorizedPath, h.page("Unauthorized"))

	if h.auth == nil {
		return
	}
	for _, role := range []account.Role{account.RoleStudent, account.RoleRecruiter, account.RoleAdmin} {
		prefix := "/" + string(role)
		guard := h.auth.PageGuard(role)
		r.Get(prefix, guard, h.dashboard(role))
		r.Get(prefix+"/*", guard, h.dashboard(role))
	}
}

func (h *PageHandler) page(title string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return renderPage(c, title, "")
	}
}

func (h *PageHandler) dashboard(role account.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		who := ""
		if p, ok := middleware.PrincipalFrom(c); ok {
			who = p.Email
		}
		return renderPage(c, fmt.Sprintf("%s dashboard", role), who)
	}
}

func renderPage(c fiber.Ctx, title, who string) error {
	body := "<!doctype html><html><head><meta charset=\"utf-8\"><title>" + html.EscapeString(title) +
		"</title></head><body><h1>" + html.EscapeString(title) + "</h1>"
	if who != "" {
		body += "<p>Signed in as " + html.EscapeString(who) + "</p>"
	}
	body += "</body></html>"

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(body)
}

package middleware

import (
	"errors"
	"strings"

	"campus-recruit/internal/domain/account"

	"github.com/gofiber/fiber/v3"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// PageGuard protects role dashboards. Page navigation only carries the
// session cookie, so no header token is consulted.
func (m *AuthMiddleware) PageGuard(role account.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := strings.TrimSpace(c.Cookies(CookieName))
		if token == "" {
			return c.Redirect().Status(fiber.StatusFound).To(LoginPath)
		}

		p, err := m.principalFromToken(c.Context(), token)
		if err != nil {
			var appErr *AppError
			if errors.As(err, &appErr) && appErr.StatusCode == fiber.StatusForbidden {
				return c.Redirect().Status(fiber.StatusFound).To(UnauthorizedPath)
			}
			return c.Redirect().Status(fiber.StatusFound).To(LoginPath)
		}
		if p.Role != role {
			return c.Redirect().Status(fiber.StatusFound).To(UnauthorizedPath)
		}

		c.Locals(CtxPrincipalKey, p)
		return c.Next()
	}
}

package middleware

import (
	"context"
	"errors"
	"strings"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxPrincipalKey = "principal"

	// CookieName carries the session token for page navigation and API calls.
	CookieName = "auth-token"
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	AccountID uuid.UUID
	Email     string
	Role      account.Role
}

// OwnershipCheck runs after role matching. A non-nil error aborts the request
// and is rendered by the error middleware.
type OwnershipCheck func(c fiber.Ctx, p Principal) error

// AccountLookup resolves the live account behind a token.
type AccountLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (account.Account, error)
}

type AuthMiddleware struct {
	jwt      jwt.Service
	accounts AccountLookup
}

func NewAuthMiddleware(jwtSvc jwt.Service, accounts AccountLookup) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, accounts: accounts}
}

// Authenticate resolves the principal from the bearer header or the session
// cookie and returns a typed error when none is valid.
func (m *AuthMiddleware) Authenticate(c fiber.Ctx) (Principal, error) {
	token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if !ok {
		token = strings.TrimSpace(c.Cookies(CookieName))
	}
	if token == "" {
		return Principal{}, Unauthenticated("", nil)
	}
	return m.principalFromToken(c.Context(), token)
}

// Require admits authenticated callers holding role (any role when empty) and
// then applies checks in order.
func (m *AuthMiddleware) Require(role account.Role, checks ...OwnershipCheck) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, err := m.Authenticate(c)
		if err != nil {
			return err
		}
		if role != "" && p.Role != role {
			return Forbidden("", nil)
		}

		c.Locals(CtxPrincipalKey, p)

		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check(c, p); err != nil {
				return err
			}
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) principalFromToken(ctx context.Context, token string) (Principal, error) {
	claims, err := m.jwt.Verify(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, Unauthenticated("Token expired", err)
		}
		return Principal{}, Unauthenticated("Invalid token", err)
	}

	p := Principal{AccountID: claims.AccountID, Email: claims.Email, Role: claims.Role}
	if m.accounts == nil {
		return p, nil
	}

	acc, err := m.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return Principal{}, Unauthenticated("Account no longer exists", err)
		}
		return Principal{}, Internal(err)
	}
	if acc.Suspended {
		return Principal{}, Forbidden("Account suspended", nil)
	}
	p.Email = acc.Email
	p.Role = acc.Role
	return p, nil
}

// PrincipalFrom returns the principal stored by Require.
func PrincipalFrom(c fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(CtxPrincipalKey).(Principal)
	return p, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeAccounts struct {
	byID map[uuid.UUID]account.Account
}

func (f fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (account.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

type gateFixture struct {
	app      *fiber.App
	tokens   *jwt.HMACService
	accounts fakeAccounts
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	f := &gateFixture{
		tokens:   jwt.NewHMACService("secret", "test", time.Hour),
		accounts: fakeAccounts{byID: map[uuid.UUID]account.Account{}},
	}
	gate := NewAuthMiddleware(f.tokens, f.accounts)
	errMw := NewErrorMiddleware(nil)

	app := fiber.New(fiber.Config{ErrorHandler: errMw.Handler()})
	app.Use(errMw.Middleware())

	ok := func(c fiber.Ctx) error {
		p, _ := PrincipalFrom(c)
		return c.JSON(fiber.Map{"role": p.Role})
	}
	app.Get("/recruiter-only", gate.Require(account.RoleRecruiter), ok)
	app.Get("/any", gate.Require(""), ok)
	app.Get("/owned/:id", gate.Require(account.RoleRecruiter, func(c fiber.Ctx, p Principal) error {
		if c.Params("id") != p.AccountID.String() {
			return NotFound("Job not found", nil)
		}
		return nil
	}), ok)
	app.Get("/panic", func(c fiber.Ctx) error { panic("boom") })
	app.Get("/internal", func(c fiber.Ctx) error { return Internal(errors.New("db down: secret detail")) })

	app.Get("/recruiter", gate.PageGuard(account.RoleRecruiter), func(c fiber.Ctx) error { return c.SendString("dashboard") })

	f.app = app
	return f
}

func (f *gateFixture) account(t *testing.T, role account.Role, suspended bool) (account.Account, string) {
	t.Helper()
	a := account.Account{ID: uuid.New(), Email: string(role) + "@test.com", Role: role, Suspended: suspended}
	f.accounts.byID[a.ID] = a
	tok, _, err := f.tokens.Issue(jwt.Claims{AccountID: a.ID, Email: a.Email, Role: a.Role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return a, tok
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	var body map[string]any
	_ = json.Unmarshal(b, &body)
	return resp, body
}

func TestRequire_MissingToken(t *testing.T) {
	f := newGateFixture(t)

	resp, body := doRequest(t, f.app, httptest.NewRequest(http.MethodGet, "/any", nil))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestRequire_RoleMismatch(t *testing.T) {
	f := newGateFixture(t)
	_, tok := f.account(t, account.RoleStudent, false)

	req := httptest.NewRequest(http.MethodGet, "/recruiter-only", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, _ := doRequest(t, f.app, req)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestRequire_CookieAccepted(t *testing.T) {
	f := newGateFixture(t)
	_, tok := f.account(t, account.RoleRecruiter, false)

	req := httptest.NewRequest(http.MethodGet, "/recruiter-only", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	resp, body := doRequest(t, f.app, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["role"] != "recruiter" {
		t.Fatalf("unexpected role %v", body["role"])
	}
}

func TestRequire_InvalidToken(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, body := doRequest(t, f.app, req)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if body["message"] != "Invalid token" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestRequire_OwnershipCheck(t *testing.T) {
	f := newGateFixture(t)
	a, tok := f.account(t, account.RoleRecruiter, false)

	req := httptest.NewRequest(http.MethodGet, "/owned/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, _ := doRequest(t, f.app, req)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/owned/"+a.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, _ = doRequest(t, f.app, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequire_SuspendedOrDeletedAccount(t *testing.T) {
	f := newGateFixture(t)
	_, suspendedTok := f.account(t, account.RoleRecruiter, true)
	deleted, deletedTok := f.account(t, account.RoleRecruiter, false)
	delete(f.accounts.byID, deleted.ID)

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+suspendedTok)
	resp, body := doRequest(t, f.app, req)
	if resp.StatusCode != fiber.StatusForbidden || body["message"] != "Account suspended" {
		t.Fatalf("expected 403 Account suspended, got %d %v", resp.StatusCode, body["message"])
	}

	req = httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+deletedTok)
	resp, _ = doRequest(t, f.app, req)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted account, got %d", resp.StatusCode)
	}
}

func TestPageGuard_Redirects(t *testing.T) {
	f := newGateFixture(t)
	_, studentTok := f.account(t, account.RoleStudent, false)
	_, recruiterTok := f.account(t, account.RoleRecruiter, false)

	cases := []struct {
		name     string
		cookie   string
		status   int
		location string
	}{
		{"no cookie", "", fiber.StatusFound, LoginPath},
		{"bad cookie", "garbage", fiber.StatusFound, LoginPath},
		{"wrong role", studentTok, fiber.StatusFound, UnauthorizedPath},
		{"right role", recruiterTok, fiber.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/recruiter", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.cookie})
			}
			resp, err := f.app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
			if got := resp.Header.Get("Location"); got != tc.location {
				t.Fatalf("expected location %q, got %q", tc.location, got)
			}
		})
	}
}

func TestPageGuard_IgnoresBearerHeader(t *testing.T) {
	f := newGateFixture(t)
	_, tok := f.account(t, account.RoleRecruiter, false)

	req := httptest.NewRequest(http.MethodGet, "/recruiter", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusFound || resp.Header.Get("Location") != LoginPath {
		t.Fatalf("expected redirect to login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestErrorMiddleware_RecoversPanicAndHidesDetail(t *testing.T) {
	f := newGateFixture(t)

	for _, path := range []string{"/panic", "/internal"} {
		resp, body := doRequest(t, f.app, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, resp.StatusCode)
		}
		if body["message"] != "internal server error" {
			t.Fatalf("%s: detail leaked: %v", path, body["message"])
		}
	}
}

func TestErrorMiddleware_UnknownRoute(t *testing.T) {
	f := newGateFixture(t)

	resp, body := doRequest(t, f.app, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if body["success"] != false {
		t.Fatalf("expected envelope on unknown route")
	}
}

func TestBearerTokenFromHeader(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
		ok   bool
	}{
		"valid":      {"Bearer abc", "abc", true},
		"lowercase":  {"bearer abc", "abc", true},
		"empty":      {"", "", false},
		"no token":   {"Bearer ", "", false},
		"wrong kind": {"Basic abc", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := bearerTokenFromHeader(tc.in)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("got (%q,%v), want (%q,%v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

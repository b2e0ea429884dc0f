package handler

import (
	"errors"
	"time"

	"campus-recruit/internal/delivery/http/dto"
	"campus-recruit/internal/delivery/http/middleware"
	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/pkg/response"
	ucauth "campus-recruit/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc           ucauth.AuthUsecase
	cookieSecure bool
	now          func() time.Time
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(uc ucauth.AuthUsecase, cookieSecure bool) *AuthHandler {
	return &AuthHandler{uc: uc, cookieSecure: cookieSecure, now: time.Now}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router, limit fiber.Handler, auth fiber.Handler) {
	if r == nil {
		return
	}
	if limit == nil {
		limit = func(c fiber.Ctx) error { return c.Next() }
	}

	r.Post("/register", limit, h.Register)
	r.Post("/login", limit, h.Login)
	r.Post("/logout", h.Logout)
	if auth != nil {
		r.Get("/me", auth, h.Me)
	}
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	sess, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     account.Role(req.Role),
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	h.setSessionCookie(c, sess)
	return response.Success(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"token": sess.Token,
		"user":  dto.NewUserResponse(sess.Account),
	})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	sess, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	h.setSessionCookie(c, sess)
	return response.Success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": sess.Token,
		"user":  dto.NewUserResponse(sess.Account),
	})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return response.Success(c, fiber.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	acc, err := h.uc.Me(c.Context(), p.AccountID)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"user": dto.NewUserResponse(acc)})
}

func (h *AuthHandler) setSessionCookie(c fiber.Ctx, sess ucauth.Session) {
	maxAge := int(sess.ExpiresAt.Sub(h.now()) / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrMissingFields):
		return middleware.BadRequest("All fields are required", err)
	case errors.Is(err, ucauth.ErrInvalidRole):
		return middleware.BadRequest("Invalid role specified", err)
	case errors.Is(err, ucauth.ErrPasswordTooShort):
		return middleware.BadRequest("Password must be at least 6 characters long", err)
	case errors.Is(err, ucauth.ErrEmailAlreadyExists):
		return middleware.Conflict("User with this email already exists", err)
	case errors.Is(err, ucauth.ErrMissingCredentials):
		return middleware.BadRequest("Email and password are required", err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.Unauthenticated("Invalid email or password", err)
	case errors.Is(err, ucauth.ErrAccountSuspended):
		return middleware.Forbidden("Account suspended", err)
	case errors.Is(err, ucauth.ErrAccountNotFound):
		return middleware.NotFound("User not found", err)
	default:
		return middleware.Internal(err)
	}
}

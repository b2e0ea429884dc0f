package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/student"
	"campus-recruit/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInternal           = errors.New("internal error")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     account.Role
}

type LoginInput struct {
	Email    string
	Password string
}

// Session is an authenticated account plus the token that proves it.
type Session struct {
	Account   account.Account
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (Session, error)
	Login(ctx context.Context, in LoginInput) (Session, error)
	Me(ctx context.Context, accountID uuid.UUID) (account.Account, error)
}

type Service struct {
	accounts account.Repository
	students student.Repository
	jwt      jwt.Service
	cost     int
	logger   *zerolog.Logger
}

func NewService(accounts account.Repository, students student.Repository, jwtSvc jwt.Service, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{accounts: accounts, students: students, jwt: jwtSvc, cost: bcrypt.DefaultCost, logger: logger}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.cost = cost
	}
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" || in.Role == "" {
		return Session{}, ErrMissingFields
	}
	if !in.Role.SelfRegistrable() {
		return Session{}, ErrInvalidRole
	}
	if len(in.Password) < minPasswordLength {
		return Session{}, ErrPasswordTooShort
	}

	hash, err := HashPassword(in.Password, s.cost)
	if err != nil {
		return Session{}, ErrInternal
	}

	created, err := s.accounts.Create(ctx, account.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			return Session{}, ErrEmailAlreadyExists
		}
		s.logger.Error().Err(err).Msg("create account failed")
		return Session{}, ErrInternal
	}

	if created.Role == account.RoleStudent {
		if _, err := s.students.Upsert(ctx, created.ID, func(*student.Profile) error { return nil }); err != nil {
			s.logger.Error().Err(err).Str("account_id", created.ID.String()).Msg("create student profile failed")
			if delErr := s.accounts.Delete(ctx, created.ID); delErr != nil {
				s.logger.Error().Err(delErr).Str("account_id", created.ID.String()).Msg("rollback account failed")
			}
			return Session{}, ErrInternal
		}
	}

	return s.IssueSession(created)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, ErrMissingCredentials
	}

	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if acc.Suspended {
		return Session{}, ErrAccountSuspended
	}

	return s.IssueSession(acc)
}

func (s *Service) Me(ctx context.Context, accountID uuid.UUID) (account.Account, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrAccountNotFound
		}
		return account.Account{}, ErrInternal
	}
	return acc.Sanitized(), nil
}

// IssueSession signs a token for acc without checking credentials.
func (s *Service) IssueSession(acc account.Account) (Session, error) {
	token, exp, err := s.jwt.Issue(jwt.Claims{AccountID: acc.ID, Email: acc.Email, Role: acc.Role})
	if err != nil {
		return Session{}, ErrInternal
	}
	return Session{Account: acc.Sanitized(), Token: token, ExpiresAt: exp}, nil
}

// NormalizeEmail trims surrounding space. Case is kept: addresses are unique
// and matched exactly as stored.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func HashPassword(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

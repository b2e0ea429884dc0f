package jwt

import (
	"errors"
	"strings"
	"time"

	"campus-recruit/internal/domain/account"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	AccountID uuid.UUID    `json:"account_id"`
	Email     string       `json:"email"`
	Role      account.Role `json:"role"`

	jwtlib.RegisteredClaims
}

type Service interface {
	Issue(c Claims) (string, time.Time, error)
	Verify(tokenString string) (Claims, error)
}

type HMACService struct {
	secret    []byte
	issuer    string
	expiresIn time.Duration

	now func() time.Time
}

func NewHMACService(secret, issuer string, expiresIn time.Duration) *HMACService {
	return &HMACService{
		secret:    []byte(secret),
		issuer:    strings.TrimSpace(issuer),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating tokens.
func (s *HMACService) WithClock(now func() time.Time) *HMACService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *HMACService) Issue(c Claims) (string, time.Time, error) {
	if len(s.secret) == 0 || s.expiresIn <= 0 {
		return "", time.Time{}, ErrTokenInvalid
	}
	if c.AccountID == uuid.Nil || !c.Role.Valid() {
		return "", time.Time{}, ErrTokenInvalid
	}

	now := s.now().UTC()
	exp := now.Add(s.expiresIn)

	c.RegisteredClaims = jwtlib.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   c.AccountID.String(),
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(exp),
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *HMACService) Verify(tokenString string) (Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" || len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(s.issuer))
	}
	p := jwtlib.NewParser(opts...)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if c.AccountID == uuid.Nil || !c.Role.Valid() {
		return Claims{}, ErrTokenInvalid
	}
	if c.Subject != "" && c.Subject != c.AccountID.String() {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}

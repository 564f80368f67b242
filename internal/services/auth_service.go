package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/session"
	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// UserFinder loads the login record.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Claims is the signed session payload.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService issues and checks session tokens.
type AuthService struct {
	Users     UserFinder
	Blacklist session.Blacklist
	Secret    []byte
	TTL       time.Duration
	Now       func() time.Time
}

var errBadCredentials = domain.UnauthenticatedError{Msg: "e-mail ou senha inválidos"}

// Session is what a successful login returns.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 12 * time.Hour
}

func (s AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ValidationError{Msg: "e-mail e senha são obrigatórios"}
	}
	if len(s.Secret) == 0 {
		return nil, domain.InternalError{Msg: "JWT_SECRET not configured"}
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if domain.IsNotFound(err) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}

	issued := s.now()
	exp := issued.Add(s.ttl())
	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	utils.LogEvent(utils.RequestIDFromContext(ctx), "auth", "login", "user_id="+u.ID)
	return &Session{Token: token, ExpiresAt: exp, UserID: u.ID, Email: u.Email}, nil
}

// Parse validates the signature and expiry and rejects revoked tokens.
func (s AuthService) Parse(ctx context.Context, token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.UnauthenticatedError{}
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.UnauthenticatedError{Msg: "sessão expirada", Err: err}
		}
		return nil, domain.UnauthenticatedError{Msg: "token inválido", Err: err}
	}
	if claims.Subject == "" {
		return nil, domain.UnauthenticatedError{Msg: "token inválido"}
	}

	if s.Blacklist != nil {
		revoked, err := s.Blacklist.IsRevoked(ctx, token)
		if err != nil {
			return nil, domain.UpstreamError{Service: "session store", Err: err}
		}
		if revoked {
			return nil, domain.UnauthenticatedError{Msg: "sessão encerrada"}
		}
	}
	return claims, nil
}

// Logout revokes the token for the rest of its lifetime. Invalid tokens are
// ignored so logout always succeeds for the client.
func (s AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.Parse(ctx, token)
	if err != nil {
		if domain.IsUpstream(err) {
			return err
		}
		return nil
	}
	if s.Blacklist == nil {
		return nil
	}
	ttl := s.ttl()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.Blacklist.Revoke(ctx, token, ttl); err != nil {
		return domain.UpstreamError{Service: "session store", Err: err}
	}
	utils.LogEvent(utils.RequestIDFromContext(ctx), "auth", "logout", "user_id="+claims.Subject)
	return nil
}

// HashPassword is used when provisioning users.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

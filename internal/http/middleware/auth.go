package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/services"
	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// AuthCookie carries the session token for browser clients.
const AuthCookie = "auth_token"

const (
	userIDKey = "user_id"
	emailKey  = "email"
	tokenKey  = "token"
)

// TokenParser is satisfied by services.AuthService.
type TokenParser interface {
	Parse(ctx context.Context, token string) (*services.Claims, error)
}

// RequireAuth rejects requests without a valid session. On rejection the
// auth cookie is cleared so the client falls back to the login screen.
func RequireAuth(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		claims, err := p.Parse(c.Request.Context(), token)
		if err != nil {
			code := http.StatusUnauthorized
			msg := "não autenticado"
			if domain.IsUpstream(err) {
				code, msg = http.StatusBadGateway, "serviço de sessão indisponível"
			} else {
				ClearAuthCookie(c)
			}
			utils.LogWarn(GetRequestID(c), "auth", "require_auth", err.Error())
			c.AbortWithStatusJSON(code, gin.H{
				"error":      msg,
				"code":       "unauthenticated",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(userIDKey, claims.Subject)
		c.Set(emailKey, claims.Email)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// BearerToken reads the Authorization header, then the auth cookie.
func BearerToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	if v, err := c.Cookie(AuthCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

func SetAuthCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookie, token, maxAge, "/", "", secure, true)
}

func ClearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookie, "", -1, "/", "", false, true)
}

// Actor returns the authenticated user as the services see it.
func Actor(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID:    c.GetString(userIDKey),
		Email:     c.GetString(emailKey),
		RequestID: GetRequestID(c),
	}
}

// Token returns the raw session token accepted by RequireAuth.
func Token(c *gin.Context) string {
	return c.GetString(tokenKey)
}

package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// PageGuard is satisfied by *permission.Resolver.
type PageGuard interface {
	CanAccessPage(ctx context.Context, userID, page string) bool
}

// RequirePage only lets through users allowed to open page. It must run
// after RequireAuth.
func RequirePage(g PageGuard, page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(userIDKey)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "não autenticado",
				"code":  "unauthenticated",
			})
			return
		}
		if !g.CanAccessPage(c.Request.Context(), uid, page) {
			utils.LogWarn(GetRequestID(c), "auth", "require_page", uid+" denied "+page)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "acesso negado",
				"code":       "forbidden",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

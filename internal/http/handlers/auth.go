package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PedidoBuscas/Buscas-sub000/internal/http/middleware"
	"github.com/PedidoBuscas/Buscas-sub000/internal/lifecycle"
	"github.com/PedidoBuscas/Buscas-sub000/internal/permission"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type menuEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// POST /api/auth/login
func (a *App) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	s, err := a.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	middleware.SetAuthCookie(c, s.Token, maxAge, a.SecureCookie)
	c.JSON(http.StatusOK, s)
}

// POST /api/auth/logout
func (a *App) Logout(c *gin.Context) {
	token := middleware.BearerToken(c)
	if err := a.Auth.Logout(c.Request.Context(), token); err != nil {
		RespondDomainError(c, err)
		return
	}
	middleware.ClearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "sessão encerrada"})
}

// GET /api/me
func (a *App) Me(c *gin.Context) {
	actor := middleware.Actor(c)
	id := a.Permissions.ResolveIdentity(c.Request.Context(), actor.UserID)
	if id.Email == "" {
		id.Email = actor.Email
	}

	menu := []menuEntry{}
	for _, item := range permission.MenuFor(id) {
		menu = append(menu, menuEntry{Key: item, Label: permission.MenuLabel(item)})
	}
	c.JSON(http.StatusOK, gin.H{
		"identity":     id,
		"capabilities": permission.CapabilitiesFor(id).List(),
		"menu":         menu,
		"can_delete":   lifecycle.IsSuperAdmin(id, a.SuperAdminEmail),
	})
}

// GET /api/pages/:page/access
func (a *App) PageAccess(c *gin.Context) {
	actor := middleware.Actor(c)
	page := c.Param("page")
	c.JSON(http.StatusOK, gin.H{
		"page":    page,
		"allowed": a.Permissions.CanAccessPage(c.Request.Context(), actor.UserID, page),
	})
}

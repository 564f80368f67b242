package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/lifecycle"
	"github.com/PedidoBuscas/Buscas-sub000/internal/permission"
	"github.com/PedidoBuscas/Buscas-sub000/internal/services"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
)

// PermissionView is satisfied by *permission.Resolver.
type PermissionView interface {
	ResolveIdentity(ctx context.Context, userID string) permission.Identity
	CanAccessPage(ctx context.Context, userID, page string) bool
}

// Lifecycle is satisfied by *lifecycle.Orchestrator.
type Lifecycle interface {
	Advance(ctx context.Context, actor domain.RequestContext, v status.Variant, requestID, target string) (*models.Request, error)
	Attach(ctx context.Context, actor domain.RequestContext, v status.Variant, requestID string, up lifecycle.Upload) (*lifecycle.Outcome, error)
	DeleteSearch(ctx context.Context, actor domain.RequestContext, requestID string) error
}

// App holds the services the handlers call into.
type App struct {
	Auth         services.AuthService
	Requests     services.RequestService
	Reports      services.ReportService
	Lifecycle    Lifecycle
	Permissions  PermissionView
	SecureCookie bool
	// SuperAdminEmail is shown to the client as can_delete on /me.
	SuperAdminEmail string
	// MaxUploadBytes bounds attachment uploads; 0 means 20 MiB.
	MaxUploadBytes int64
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "corpo da requisição vazio", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "payload inválido", err.Error())
		return false
	}
	return true
}

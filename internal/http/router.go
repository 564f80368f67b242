package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	intconfig "github.com/PedidoBuscas/Buscas-sub000/internal/config"
	h "github.com/PedidoBuscas/Buscas-sub000/internal/http/handlers"
	"github.com/PedidoBuscas/Buscas-sub000/internal/http/middleware"
	"github.com/PedidoBuscas/Buscas-sub000/internal/permission"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
)

func NewRouter(env intconfig.Env, app *h.App) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logrus.Warnf("failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "rota não encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", app.Login)
		auth.POST("/logout", app.Logout)

		private := api.Group("", middleware.RequireAuth(app.Auth))
		private.GET("/routes", h.Routes)
		private.GET("/me", app.Me)
		private.GET("/pages/:page/access", app.PageAccess)

		searches := private.Group("/searches")
		searches.POST("", app.CreateSearch)
		searches.GET("/mine", app.MySearches)
		searches.GET("/queue", app.SearchQueue)
		searches.GET("/:id/position", app.SearchPosition)
		mountLifecycle(searches, app, status.VariantSearch)
		searches.DELETE("/:id", app.DeleteSearch)

		objections := private.Group("/objections")
		objections.POST("", app.CreateObjection)
		objections.GET("/mine", app.MyObjections)
		objections.GET("/queue", app.ObjectionQueue)
		mountLifecycle(objections, app, status.VariantObjection)

		patents := private.Group("/patents")
		patents.POST("", app.CreatePatent)
		patents.GET("/mine", app.MyPatents)
		patents.GET("/queue", app.PatentQueue)
		mountLifecycle(patents, app, status.VariantPatent)

		reports := private.Group("/reports", middleware.RequirePage(app.Permissions, permission.MenuCostReport))
		reports.GET("/costs", app.CostReport)
		reports.GET("/costs/pdf", app.CostReportPDF)
	}

	h.SetRouter(r)
	return r
}

func mountLifecycle(g *gin.RouterGroup, app *h.App, v status.Variant) {
	g.POST("/:id/advance", app.Advance(v))
	g.POST("/:id/attachments", app.Attach(v))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PedidoBuscas/Buscas-sub000/internal/http/middleware"
	"github.com/PedidoBuscas/Buscas-sub000/internal/services"
)

// POST /api/searches
func (a *App) CreateSearch(c *gin.Context) {
	var in services.SearchInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := a.Requests.CreateSearch(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /api/objections
func (a *App) CreateObjection(c *gin.Context) {
	var in services.ObjectionInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := a.Requests.CreateObjection(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /api/patents
func (a *App) CreatePatent(c *gin.Context) {
	var in services.PatentInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := a.Requests.CreatePatent(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// GET /api/searches/mine
func (a *App) MySearches(c *gin.Context) {
	groups, err := a.Requests.MySearches(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GET /api/objections/mine
func (a *App) MyObjections(c *gin.Context) {
	groups, err := a.Requests.MyObjections(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GET /api/patents/mine
func (a *App) MyPatents(c *gin.Context) {
	groups, err := a.Requests.MyPatents(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GET /api/searches/queue
func (a *App) SearchQueue(c *gin.Context) {
	list, err := a.Requests.SearchQueue(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

// GET /api/objections/queue
func (a *App) ObjectionQueue(c *gin.Context) {
	list, err := a.Requests.ObjectionQueue(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

// GET /api/patents/queue
func (a *App) PatentQueue(c *gin.Context) {
	list, err := a.Requests.PatentQueue(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

// GET /api/searches/:id/position
func (a *App) SearchPosition(c *gin.Context) {
	pos, err := a.Requests.SearchPosition(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "position": pos, "queued": pos >= 0})
}

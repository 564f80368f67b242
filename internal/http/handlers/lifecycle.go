package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/http/middleware"
	"github.com/PedidoBuscas/Buscas-sub000/internal/lifecycle"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
)

const defaultMaxUpload = 20 << 20

type advanceRequest struct {
	Status string `json:"status"`
}

// Advance returns the POST /api/<variant>/:id/advance handler.
func (a *App) Advance(v status.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req advanceRequest
		if !BindJSONOrError(c, &req) {
			return
		}
		out, err := a.Lifecycle.Advance(c.Request.Context(), middleware.Actor(c), v, c.Param("id"), req.Status)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// Attach returns the POST /api/<variant>/:id/attachments handler. The
// file comes in the multipart field "file".
func (a *App) Attach(v status.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := a.MaxUploadBytes
		if limit <= 0 {
			limit = defaultMaxUpload
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

		fh, err := c.FormFile("file")
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "file", Msg: "arquivo obrigatório", Err: err})
			return
		}
		f, err := fh.Open()
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "file", Msg: "arquivo ilegível", Err: err})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "file", Msg: "arquivo ilegível", Err: err})
			return
		}

		out, err := a.Lifecycle.Attach(c.Request.Context(), middleware.Actor(c), v, c.Param("id"), lifecycle.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// DELETE /api/searches/:id
func (a *App) DeleteSearch(c *gin.Context) {
	if err := a.Lifecycle.DeleteSearch(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "busca excluída", "id": c.Param("id")})
}

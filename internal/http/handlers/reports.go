package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PedidoBuscas/Buscas-sub000/internal/cost"
	"github.com/PedidoBuscas/Buscas-sub000/internal/http/middleware"
	"github.com/PedidoBuscas/Buscas-sub000/internal/services"
	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

type monthView struct {
	Label      string          `json:"label"`
	Count      int             `json:"count"`
	Total      string          `json:"total"`
	TotalLabel string          `json:"total_label"`
	Items      []cost.LineItem `json:"items"`
}

type consultantView struct {
	Name       string      `json:"name"`
	Total      string      `json:"total"`
	TotalLabel string      `json:"total_label"`
	Months     []monthView `json:"months"`
}

func reportQuery(c *gin.Context) services.ReportQuery {
	return services.ReportQuery{
		Consultant: c.Query("consultant"),
		From:       c.Query("from"),
		To:         c.Query("to"),
	}
}

// GET /api/reports/costs
func (a *App) CostReport(c *gin.Context) {
	r, err := a.Reports.CostReport(c.Request.Context(), middleware.Actor(c), reportQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	consultants := []consultantView{}
	for _, name := range r.Consultants() {
		cv := consultantView{
			Name:       name,
			Total:      utils.FormatMoney(r.ConsultantTotal(name)),
			TotalLabel: utils.FormatBRL(r.ConsultantTotal(name)),
			Months:     []monthView{},
		}
		for _, m := range r.Months(name) {
			cv.Months = append(cv.Months, monthView{
				Label:      m.Label,
				Count:      m.Count,
				Total:      utils.FormatMoney(m.Total),
				TotalLabel: utils.FormatBRL(m.Total),
				Items:      m.Items,
			})
		}
		consultants = append(consultants, cv)
	}
	c.JSON(http.StatusOK, gin.H{
		"consultants":       consultants,
		"count":             r.Count,
		"grand_total":       utils.FormatMoney(r.GrandTotal),
		"grand_total_label": utils.FormatBRL(r.GrandTotal),
	})
}

// GET /api/reports/costs/pdf
func (a *App) CostReportPDF(c *gin.Context) {
	pdf, filename, err := a.Reports.ExportPDF(c.Request.Context(), middleware.Actor(c), reportQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

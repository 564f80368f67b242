package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/PedidoBuscas/Buscas-sub000/internal/cost"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/permission"
	"github.com/PedidoBuscas/Buscas-sub000/internal/repositories"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// SearchLister lists searches for the cost report.
type SearchLister interface {
	ListSearches(ctx context.Context, f repositories.ListFilter) ([]models.SearchRequest, error)
}

// ConsultantDirectory resolves consultant display names.
type ConsultantDirectory interface {
	ConsultantNames(ctx context.Context) (map[string]string, error)
}

// PageGuard is satisfied by *permission.Resolver.
type PageGuard interface {
	CanAccessPage(ctx context.Context, userID, page string) bool
}

// ReportService prices completed searches per consultant and month.
type ReportService struct {
	Searches    SearchLister
	Consultants ConsultantDirectory
	Pages       PageGuard
	Now         func() time.Time
}

// ReportQuery is the filter coming from the cost report screen. Dates are
// YYYY-MM-DD and inclusive.
type ReportQuery struct {
	Consultant string
	From       string
	To         string
}

func (q ReportQuery) filter() (cost.Filter, error) {
	f := cost.Filter{Consultant: strings.TrimSpace(q.Consultant)}
	if s := strings.TrimSpace(q.From); s != "" {
		t, err := utils.ParseDate(s)
		if err != nil {
			return f, domain.ValidationError{Field: "from", Msg: "data inválida", Err: err}
		}
		f.From = &t
	}
	if s := strings.TrimSpace(q.To); s != "" {
		t, err := utils.ParseDate(s)
		if err != nil {
			return f, domain.ValidationError{Field: "to", Msg: "data inválida", Err: err}
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, domain.ValidationError{Field: "to", Msg: "data final anterior à inicial"}
	}
	return f, nil
}

func (s ReportService) entries(ctx context.Context, requestID string) ([]cost.Entry, error) {
	list, err := s.Searches.ListSearches(ctx, repositories.ListFilter{Statuses: []string{string(status.SearchCompleted)}})
	if err != nil {
		return nil, err
	}
	names, err := s.Consultants.ConsultantNames(ctx)
	if err != nil {
		utils.LogWarn(requestID, "reports", "consultant_names", err.Error())
		names = map[string]string{}
	}
	out := make([]cost.Entry, 0, len(list))
	for _, r := range list {
		out = append(out, cost.Entry{
			RequestID:     r.ID,
			Consultant:    utils.FirstNonEmpty(names[r.OwnerID], r.OwnerID),
			TrademarkName: r.TrademarkName,
			CreatedAt:     r.CreatedAt,
			ClassCount:    cost.ClassCount(r.ClassesRaw, r.FullData),
		})
	}
	return out, nil
}

// CostReport is restricted to admins and finance staff.
func (s ReportService) CostReport(ctx context.Context, actor domain.RequestContext, q ReportQuery) (cost.Report, error) {
	if !s.Pages.CanAccessPage(ctx, actor.UserID, permission.MenuCostReport) {
		return cost.Report{}, domain.ForbiddenError{Action: "view cost report"}
	}
	f, err := q.filter()
	if err != nil {
		return cost.Report{}, err
	}
	entries, err := s.entries(ctx, actor.RequestID)
	if err != nil {
		return cost.Report{}, err
	}
	report := cost.Aggregate(entries, f)
	utils.LogEvent(actor.RequestID, "reports", "cost_report", fmt.Sprintf("count=%d total=%s", report.Count, utils.FormatMoney(report.GrandTotal)))
	return report, nil
}

// ExportPDF renders the same report as CostReport into a PDF.
func (s ReportService) ExportPDF(ctx context.Context, actor domain.RequestContext, q ReportQuery) ([]byte, string, error) {
	report, err := s.CostReport(ctx, actor, q)
	if err != nil {
		return nil, "", err
	}
	return buildCostReportPDF(report, q, s.now())
}

func (s ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func buildCostReportPDF(r cost.Report, q ReportQuery, at time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Relatório de Custos"), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Relatório de Custos de Buscas"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr("Gerado em: "+at.Format("02/01/2006 15:04")))
	pdf.Ln(6)
	if period := periodLabel(q); period != "" {
		pdf.Cell(0, 6, tr("Período: "+period))
		pdf.Ln(6)
	}
	if c := strings.TrimSpace(q.Consultant); c != "" {
		pdf.Cell(0, 6, tr("Consultor: "+c))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if r.Count == 0 {
		pdf.Cell(0, 8, tr("Nenhuma busca concluída no período."))
		pdf.Ln(8)
	}

	for _, consultant := range r.Consultants() {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(0, 8, tr(consultant), "", 1, "L", true, 0, "")

		for _, month := range r.Months(consultant) {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(120, 7, tr(month.Label), "B", 0, "L", false, 0, "")
			pdf.CellFormat(20, 7, fmt.Sprintf("%d", month.Count), "B", 0, "R", false, 0, "")
			pdf.CellFormat(0, 7, tr(utils.FormatBRL(month.Total)), "B", 1, "R", false, 0, "")

			pdf.SetFont("Helvetica", "", 9)
			for _, item := range month.Items {
				pdf.CellFormat(100, 6, tr(item.TrademarkName), "", 0, "L", false, 0, "")
				pdf.CellFormat(40, 6, tr(fmt.Sprintf("%d classe(s)", item.ClassCount)), "", 0, "R", false, 0, "")
				pdf.CellFormat(0, 6, tr(utils.FormatBRL(item.Price)), "", 1, "R", false, 0, "")
			}
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(140, 7, tr("Subtotal"), "T", 0, "R", false, 0, "")
		pdf.CellFormat(0, 7, tr(utils.FormatBRL(r.ConsultantTotal(consultant))), "T", 1, "R", false, 0, "")
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 9, tr(fmt.Sprintf("Total geral (%d buscas)", r.Count)), "T", 0, "R", false, 0, "")
	pdf.CellFormat(0, 9, tr(utils.FormatBRL(r.GrandTotal)), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render report", Err: err}
	}
	filename := fmt.Sprintf("relatorio-custos-%s.pdf", at.Format("20060102"))
	return buf.Bytes(), filename, nil
}

func periodLabel(q ReportQuery) string {
	from, to := strings.TrimSpace(q.From), strings.TrimSpace(q.To)
	switch {
	case from != "" && to != "":
		return from + " a " + to
	case from != "":
		return "a partir de " + from
	case to != "":
		return "até " + to
	}
	return ""
}

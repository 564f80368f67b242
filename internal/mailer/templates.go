package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Kind selects a notification template.
type Kind string

const (
	KindSearchCompleted        Kind = "search_completed"
	KindObjectionCompleted     Kind = "objection_completed"
	KindPatentReportConsultant Kind = "patent_report_consultant"
	KindPatentReportStaff      Kind = "patent_report_staff"
)

// BodyData fills every template.
type BodyData struct {
	RecipientName string
	Headline      string
	RequestID     string
	FileName      string
	FileURL       string
}

const layout = `<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #222;">
<p>Olá{{if .RecipientName}}, {{.RecipientName}}{{end}}.</p>
{{block "content" .}}{{end}}
{{if .FileURL}}<p>Arquivo: <a href="{{.FileURL}}">{{.FileName}}</a></p>{{end}}
<p style="color:#777;font-size:12px">Solicitação {{.RequestID}}. Mensagem automática, não responda.</p>
</body></html>`

var contents = map[Kind]struct {
	subject string
	body    string
}{
	KindSearchCompleted: {
		subject: "Busca concluída: %s",
		body:    `<p>A busca da marca <strong>{{.Headline}}</strong> foi concluída. O resultado segue em anexo.</p>`,
	},
	KindObjectionCompleted: {
		subject: "Oposição concluída: %s",
		body:    `<p>A oposição <strong>{{.Headline}}</strong> foi concluída pelo jurídico. O parecer segue em anexo.</p>`,
	},
	KindPatentReportConsultant: {
		subject: "Relatório de patente concluído: %s",
		body:    `<p>O relatório da patente <strong>{{.Headline}}</strong> está pronto e segue em anexo.</p>`,
	},
	KindPatentReportStaff: {
		subject: "Relatório de patente enviado ao consultor: %s",
		body:    `<p>O relatório da patente <strong>{{.Headline}}</strong> foi anexado e o consultor foi avisado.</p>`,
	},
}

var templates = func() map[Kind]*template.Template {
	out := make(map[Kind]*template.Template, len(contents))
	for k, c := range contents {
		t := template.Must(template.New(string(k)).Parse(layout))
		template.Must(t.New("content").Parse(c.body))
		out[k] = t
	}
	return out
}()

// Render returns the subject and HTML body of a notification.
func Render(kind Kind, data BodyData) (string, string, error) {
	c, ok := contents[kind]
	if !ok {
		return "", "", fmt.Errorf("mailer: unknown template %q", kind)
	}
	var buf bytes.Buffer
	if err := templates[kind].Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("mailer: render %s: %w", kind, err)
	}
	return fmt.Sprintf(c.subject, data.Headline), buf.String(), nil
}

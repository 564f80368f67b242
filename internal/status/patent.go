package status

// PatentStatus is the state of a patent-deposit request.
type PatentStatus string

const (
	PatentPending          PatentStatus = "pending"
	PatentReceived         PatentStatus = "received"
	PatentReportInProgress PatentStatus = "report_in_progress"
	PatentReportCompleted  PatentStatus = "report_completed"
)

// Display-only states. They have text and icon but no transition reaches
// them, and NormalizePatent does not accept them.
const (
	PatentAwaitingDocuments PatentStatus = "awaiting_documents"
	PatentFiled             PatentStatus = "filed"
	PatentGranted           PatentStatus = "granted"
)

var patentOrder = []PatentStatus{PatentPending, PatentReceived, PatentReportInProgress, PatentReportCompleted}

var patentText = map[PatentStatus]string{
	PatentPending:           "Pendente",
	PatentReceived:          "Recebido",
	PatentReportInProgress:  "Relatório em Andamento",
	PatentReportCompleted:   "Relatório Concluído",
	PatentAwaitingDocuments: "Aguardando Documentos",
	PatentFiled:             "Depositado",
	PatentGranted:           "Concedido",
}

var patentIcon = map[PatentStatus]string{
	PatentPending:           "⏳",
	PatentReceived:          "📥",
	PatentReportInProgress:  "📝",
	PatentReportCompleted:   "✅",
	PatentAwaitingDocuments: "📎",
	PatentFiled:             "📨",
	PatentGranted:           "🏅",
}

// NormalizePatent maps any persisted value outside the enum to PatentPending.
func NormalizePatent(raw string) PatentStatus {
	s := PatentStatus(clean(raw))
	if indexOf(patentOrder, s) < 0 {
		return PatentPending
	}
	return s
}

// PatentStatuses returns the reachable enum in workflow order.
func PatentStatuses() []PatentStatus {
	return append([]PatentStatus(nil), patentOrder...)
}

func (s PatentStatus) DisplayText() string {
	if t, ok := patentText[s]; ok {
		return t
	}
	return patentText[PatentPending]
}

func (s PatentStatus) Icon() string {
	if i, ok := patentIcon[s]; ok {
		return i
	}
	return patentIcon[PatentPending]
}

func (s PatentStatus) Next() (PatentStatus, bool) { return next(patentOrder, s) }

func (s PatentStatus) IsTerminal() bool { return s == PatentReportCompleted }

package status

// ObjectionStatus is the state of a legal-objection request.
type ObjectionStatus string

const (
	ObjectionPending     ObjectionStatus = "pending"
	ObjectionReceived    ObjectionStatus = "received"
	ObjectionInExecution ObjectionStatus = "in_execution"
	ObjectionCompleted   ObjectionStatus = "completed"
)

var objectionOrder = []ObjectionStatus{ObjectionPending, ObjectionReceived, ObjectionInExecution, ObjectionCompleted}

var objectionText = map[ObjectionStatus]string{
	ObjectionPending:     "Pendente",
	ObjectionReceived:    "Recebida",
	ObjectionInExecution: "Em Execução",
	ObjectionCompleted:   "Concluída",
}

var objectionIcon = map[ObjectionStatus]string{
	ObjectionPending:     "⏳",
	ObjectionReceived:    "📥",
	ObjectionInExecution: "⚖️",
	ObjectionCompleted:   "✅",
}

// NormalizeObjection maps any persisted value outside the enum to ObjectionPending.
func NormalizeObjection(raw string) ObjectionStatus {
	s := ObjectionStatus(clean(raw))
	if indexOf(objectionOrder, s) < 0 {
		return ObjectionPending
	}
	return s
}

// ObjectionStatuses returns the enum in workflow order.
func ObjectionStatuses() []ObjectionStatus {
	return append([]ObjectionStatus(nil), objectionOrder...)
}

func (s ObjectionStatus) DisplayText() string {
	if t, ok := objectionText[s]; ok {
		return t
	}
	return objectionText[ObjectionPending]
}

func (s ObjectionStatus) Icon() string {
	if i, ok := objectionIcon[s]; ok {
		return i
	}
	return objectionIcon[ObjectionPending]
}

func (s ObjectionStatus) Next() (ObjectionStatus, bool) { return next(objectionOrder, s) }

func (s ObjectionStatus) IsTerminal() bool { return s == ObjectionCompleted }

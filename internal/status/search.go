package status

// SearchStatus is the state of a trademark-search request.
type SearchStatus string

const (
	SearchPending   SearchStatus = "pending"
	SearchReceived  SearchStatus = "received"
	SearchInReview  SearchStatus = "in_review"
	SearchCompleted SearchStatus = "completed"
)

var searchOrder = []SearchStatus{SearchPending, SearchReceived, SearchInReview, SearchCompleted}

var searchText = map[SearchStatus]string{
	SearchPending:   "Pendente",
	SearchReceived:  "Recebida",
	SearchInReview:  "Em Análise",
	SearchCompleted: "Concluída",
}

var searchIcon = map[SearchStatus]string{
	SearchPending:   "⏳",
	SearchReceived:  "📥",
	SearchInReview:  "🔍",
	SearchCompleted: "✅",
}

// NormalizeSearch maps any persisted value outside the enum to SearchPending.
func NormalizeSearch(raw string) SearchStatus {
	s := SearchStatus(clean(raw))
	if indexOf(searchOrder, s) < 0 {
		return SearchPending
	}
	return s
}

// SearchStatuses returns the enum in workflow order.
func SearchStatuses() []SearchStatus {
	return append([]SearchStatus(nil), searchOrder...)
}

func (s SearchStatus) DisplayText() string {
	if t, ok := searchText[s]; ok {
		return t
	}
	return searchText[SearchPending]
}

func (s SearchStatus) Icon() string {
	if i, ok := searchIcon[s]; ok {
		return i
	}
	return searchIcon[SearchPending]
}

func (s SearchStatus) Next() (SearchStatus, bool) { return next(searchOrder, s) }

func (s SearchStatus) IsTerminal() bool { return s == SearchCompleted }

package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
)

// Attachment is a result file appended by staff when a stage completes.
type Attachment struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	UploadedBy string `json:"uploaded_by"`
	UploadedAt string `json:"uploaded_at"`
}

// Request carries the fields shared by every request variant.
// Status is normalized on read; CreatedAt is kept as the persisted text.
// Subject is the variant's headline field, filled on read.
type Request struct {
	ID          string         `json:"id"`
	Variant     status.Variant `json:"variant"`
	OwnerID     string         `json:"owner_id"`
	Status      string         `json:"status"`
	CreatedAt   string         `json:"created_at"`
	Attachments []Attachment   `json:"attachments"`
	Note        string         `json:"note,omitempty"`
	StaffID     string         `json:"staff_id,omitempty"`
	Subject     string         `json:"subject"`
}

// SearchTypePaid marks a paid search; paid searches are processed first.
const SearchTypePaid = "paga"

type SearchRequest struct {
	Request
	TrademarkName  string `json:"trademark_name"`
	SearchType     string `json:"search_type"`
	ClassesRaw     string `json:"classes"`
	Specifications string `json:"specifications"`
	FullData       string `json:"full_data,omitempty"`
}

// Classes decodes the persisted class list. Blank entries are skipped and
// malformed input yields an empty list.
func (s SearchRequest) Classes() []string {
	var raw []any
	out := []string{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(s.ClassesRaw)), &raw); err != nil {
		return out
	}
	for _, c := range raw {
		var v string
		switch x := c.(type) {
		case string:
			v = strings.TrimSpace(x)
		case float64:
			v = strconv.FormatFloat(x, 'f', -1, 64)
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsPaid reports whether the search was requested as a paid search.
func (s SearchRequest) IsPaid() bool {
	return strings.EqualFold(strings.TrimSpace(s.SearchType), SearchTypePaid)
}

type ObjectionRequest struct {
	Request
	CaseDescription string `json:"case_description"`
	Processes       string `json:"processes"`
	ContractNumbers string `json:"contract_numbers"`
}

type PatentRequest struct {
	Request
	Title         string `json:"title"`
	ProcessNumber string `json:"process_number"`
	Nature        string `json:"nature"`
}

// DecodeAttachments reads the persisted JSON array. Malformed input yields
// an empty list.
func DecodeAttachments(raw string) []Attachment {
	out := []Attachment{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []Attachment{}
	}
	return out
}

// EncodeAttachments is the inverse of DecodeAttachments.
func EncodeAttachments(list []Attachment) string {
	if list == nil {
		list = []Attachment{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}

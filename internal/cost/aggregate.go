package cost

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// Entry is one completed search ready to be priced.
type Entry struct {
	RequestID     string
	Consultant    string
	TrademarkName string
	CreatedAt     string
	ClassCount    int
}

// LineItem is an Entry with its computed price.
type LineItem struct {
	RequestID     string          `json:"request_id"`
	TrademarkName string          `json:"trademark_name"`
	CreatedAt     string          `json:"created_at"`
	ClassCount    int             `json:"class_count"`
	Price         decimal.Decimal `json:"price"`
}

// MonthBucket groups one consultant's line items of one calendar month.
type MonthBucket struct {
	Label string          `json:"label"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
	Items []LineItem      `json:"items"`

	year  int
	month time.Month
	dated bool
}

// Filter narrows the entries before aggregation. Zero values disable a
// filter. The date range is inclusive on both ends.
type Filter struct {
	Consultant string
	From       *time.Time
	To         *time.Time
}

// Report is derived on every view and never persisted.
type Report struct {
	ByConsultant map[string]map[string]*MonthBucket `json:"by_consultant"`
	GrandTotal   decimal.Decimal                    `json:"grand_total"`
	Count        int                                `json:"count"`
}

// Aggregate filters entries, prices them and groups them by consultant and
// month. Sums are exact; nothing is rounded before display.
func Aggregate(entries []Entry, f Filter) Report {
	r := Report{
		ByConsultant: map[string]map[string]*MonthBucket{},
		GrandTotal:   decimal.Zero,
	}
	for _, e := range entries {
		created, dated := utils.ParseTimestamp(e.CreatedAt)
		created = created.UTC()
		if !f.matches(e, created, dated) {
			continue
		}

		price := Price(e.ClassCount)
		months, ok := r.ByConsultant[e.Consultant]
		if !ok {
			months = map[string]*MonthBucket{}
			r.ByConsultant[e.Consultant] = months
		}

		label := UndatedLabel
		if dated {
			label = labelFor(created)
		}
		b, ok := months[label]
		if !ok {
			b = &MonthBucket{Label: label, Total: decimal.Zero, dated: dated}
			if dated {
				b.year, b.month = created.Year(), created.Month()
			}
			months[label] = b
		}

		b.Count++
		b.Total = b.Total.Add(price)
		b.Items = append(b.Items, LineItem{
			RequestID:     e.RequestID,
			TrademarkName: e.TrademarkName,
			CreatedAt:     e.CreatedAt,
			ClassCount:    e.ClassCount,
			Price:         price,
		})
		r.GrandTotal = r.GrandTotal.Add(price)
		r.Count++
	}
	return r
}

func (f Filter) matches(e Entry, created time.Time, dated bool) bool {
	if c := strings.TrimSpace(f.Consultant); c != "" && e.Consultant != c {
		return false
	}
	if f.From == nil && f.To == nil {
		return true
	}
	if !dated {
		return false
	}
	if f.From != nil && created.Before(*f.From) {
		return false
	}
	if f.To != nil && created.After(*f.To) {
		return false
	}
	return true
}

// Consultants returns the consultant names in display order.
func (r Report) Consultants() []string {
	names := make([]string, 0, len(r.ByConsultant))
	for name := range r.ByConsultant {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Months returns a consultant's buckets chronologically, with the undated
// bucket always last.
func (r Report) Months(consultant string) []*MonthBucket {
	months := r.ByConsultant[consultant]
	out := make([]*MonthBucket, 0, len(months))
	for _, b := range months {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.dated != b.dated {
			return a.dated
		}
		if a.year != b.year {
			return a.year < b.year
		}
		return a.month < b.month
	})
	return out
}

// ConsultantTotal sums every bucket of one consultant.
func (r Report) ConsultantTotal(consultant string) decimal.Decimal {
	total := decimal.Zero
	for _, b := range r.ByConsultant[consultant] {
		total = total.Add(b.Total)
	}
	return total
}

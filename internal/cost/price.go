// Package cost prices completed trademark searches and aggregates them per
// consultant and calendar month.
package cost

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// BaseFee is charged for the first class of a search.
	BaseFee = decimal.NewFromInt(40)
	// ExtraClassFee is charged for every class beyond the first.
	ExtraClassFee = decimal.NewFromInt(10)
)

// Price returns the fee for a search with classCount non-empty classes.
func Price(classCount int) decimal.Decimal {
	if classCount <= 0 {
		return decimal.Zero
	}
	return BaseFee.Add(ExtraClassFee.Mul(decimal.NewFromInt(int64(classCount - 1))))
}

// ClassCount counts the distinct non-blank trademark classes of a search.
// The structured class list wins; when it is absent, empty or unparseable the
// first trademark of the full_data blob is used instead.
func ClassCount(classesRaw, fullDataRaw string) int {
	if classes, ok := parseClassList([]byte(classesRaw)); ok && len(classes) > 0 {
		return countClasses(classes)
	}
	if classes, ok := classesFromFullData(fullDataRaw); ok {
		return countClasses(classes)
	}
	return 0
}

// fullData is the nested blob older records carry. Both key spellings
// occur in persisted data.
type fullData struct {
	Trademarks []trademark `json:"trademarks"`
	Marcas     []trademark `json:"marcas"`
}

type trademark struct {
	Classes json.RawMessage `json:"classes"`
}

func classesFromFullData(raw string) ([]string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	var fd fullData
	if err := json.Unmarshal([]byte(raw), &fd); err != nil {
		return nil, false
	}
	marks := fd.Trademarks
	if len(marks) == 0 {
		marks = fd.Marcas
	}
	if len(marks) == 0 {
		return nil, false
	}
	return parseClassList(marks[0].Classes)
}

// parseClassList accepts a JSON array of strings and/or numbers.
func parseClassList(raw []byte) ([]string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, false
	}
	var items []any
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
		case nil:
			out = append(out, "")
		default:
			return nil, false
		}
	}
	return out, true
}

func countClasses(classes []string) int {
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		c = strings.TrimLeft(strings.TrimSpace(c), "0")
		if c == "" {
			continue
		}
		seen[c] = struct{}{}
	}
	return len(seen)
}

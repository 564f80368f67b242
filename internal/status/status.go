// Package status holds the closed status sets of each request variant and
// their display text. Every function here is pure and total.
package status

import "strings"

// Variant names one of the three independently modeled request kinds.
type Variant string

const (
	VariantSearch    Variant = "search"
	VariantObjection Variant = "objection"
	VariantPatent    Variant = "patent"
)

// Variants lists every request variant.
var Variants = []Variant{VariantSearch, VariantObjection, VariantPatent}

// ParseVariant accepts the variant names used in URLs and storage.
func ParseVariant(raw string) (Variant, bool) {
	switch Variant(clean(raw)) {
	case VariantSearch:
		return VariantSearch, true
	case VariantObjection:
		return VariantObjection, true
	case VariantPatent:
		return VariantPatent, true
	default:
		return "", false
	}
}

// Stage returns the workflow ordinal of raw within its variant, after
// normalization. Unknown variants report -1.
func Stage(v Variant, raw string) int {
	switch v {
	case VariantSearch:
		return indexOf(searchOrder, NormalizeSearch(raw))
	case VariantObjection:
		return indexOf(objectionOrder, NormalizeObjection(raw))
	case VariantPatent:
		return indexOf(patentOrder, NormalizePatent(raw))
	default:
		return -1
	}
}

// Normalize maps raw onto the variant's enum and returns it as plain text.
func Normalize(v Variant, raw string) string {
	switch v {
	case VariantSearch:
		return string(NormalizeSearch(raw))
	case VariantObjection:
		return string(NormalizeObjection(raw))
	case VariantPatent:
		return string(NormalizePatent(raw))
	default:
		return ""
	}
}

// Next returns the single forward step from raw, if any.
func Next(v Variant, raw string) (string, bool) {
	switch v {
	case VariantSearch:
		n, ok := NormalizeSearch(raw).Next()
		return string(n), ok
	case VariantObjection:
		n, ok := NormalizeObjection(raw).Next()
		return string(n), ok
	case VariantPatent:
		n, ok := NormalizePatent(raw).Next()
		return string(n), ok
	default:
		return "", false
	}
}

// IsTerminal reports whether raw is the last stage of its variant.
func IsTerminal(v Variant, raw string) bool {
	_, ok := Next(v, raw)
	return !ok
}

// DisplayText dispatches to the variant's own display table.
func DisplayText(v Variant, raw string) string {
	switch v {
	case VariantSearch:
		return NormalizeSearch(raw).DisplayText()
	case VariantObjection:
		return NormalizeObjection(raw).DisplayText()
	case VariantPatent:
		return PatentStatus(clean(raw)).DisplayText()
	default:
		return ""
	}
}

// Icon dispatches to the variant's own icon table.
func Icon(v Variant, raw string) string {
	switch v {
	case VariantSearch:
		return NormalizeSearch(raw).Icon()
	case VariantObjection:
		return NormalizeObjection(raw).Icon()
	case VariantPatent:
		return PatentStatus(clean(raw)).Icon()
	default:
		return ""
	}
}

// Statuses lists the reachable statuses of v in workflow order.
func Statuses(v Variant) []string {
	switch v {
	case VariantSearch:
		return toStrings(searchOrder)
	case VariantObjection:
		return toStrings(objectionOrder)
	case VariantPatent:
		return toStrings(patentOrder)
	default:
		return nil
	}
}

func toStrings[T ~string](list []T) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = string(s)
	}
	return out
}

func clean(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func indexOf[T comparable](order []T, s T) int {
	for i, v := range order {
		if v == s {
			return i
		}
	}
	return -1
}

func next[T comparable](order []T, s T) (T, bool) {
	i := indexOf(order, s)
	if i < 0 || i+1 >= len(order) {
		var zero T
		return zero, false
	}
	return order[i+1], true
}

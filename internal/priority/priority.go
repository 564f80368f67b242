// Package priority orders the active requests of one variant so staff work
// them in a fixed order, and tells a requester how many are ahead of theirs.
package priority

import (
	"sort"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// Type ranks.
const (
	TypePaid  = 0
	TypeOther = 1
)

// createdAtLayout is fixed-width so text order equals time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// Key is the composite sort key. Inactive items never enter the order.
type Key struct {
	Stage     int
	Type      int
	CreatedAt string
	Active    bool
}

func (k Key) less(o Key) bool {
	if k.Stage != o.Stage {
		return k.Stage < o.Stage
	}
	if k.Type != o.Type {
		return k.Type < o.Type
	}
	return k.CreatedAt < o.CreatedAt
}

// Order returns the active items sorted by (Stage, Type, CreatedAt). The
// sort is stable, so equal keys keep their input order. items is not
// modified.
func Order[T any](items []T, keyOf func(T) Key) []T {
	type keyed struct {
		item T
		key  Key
	}
	active := make([]keyed, 0, len(items))
	for _, it := range items {
		k := keyOf(it)
		if !k.Active {
			continue
		}
		active = append(active, keyed{item: it, key: k})
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].key.less(active[j].key)
	})
	out := make([]T, len(active))
	for i, a := range active {
		out[i] = a.item
	}
	return out
}

// Position returns the zero-based index of target within Order(items).
// 0 means next to be processed; -1 means target is inactive or absent.
func Position[T any](target T, items []T, keyOf func(T) Key, same func(a, b T) bool) int {
	if !keyOf(target).Active {
		return -1
	}
	for i, it := range Order(items, keyOf) {
		if same(it, target) {
			return i
		}
	}
	return -1
}

// CreatedAtKey renders a persisted creation timestamp for comparison.
// Missing or unparseable timestamps become "", which sorts them first among
// otherwise equal keys. Staff queues depend on this order, so it stays.
func CreatedAtKey(raw string) string {
	t, ok := utils.ParseTimestamp(raw)
	if !ok {
		return ""
	}
	return t.UTC().Format(createdAtLayout)
}

var searchStageRank = map[status.SearchStatus]int{
	status.SearchInReview: 0,
	status.SearchReceived: 1,
	status.SearchPending:  2,
}

// SearchKey ranks a trademark search.
func SearchKey(r models.SearchRequest) Key {
	rank, ok := searchStageRank[status.NormalizeSearch(r.Status)]
	typ := TypeOther
	if r.IsPaid() {
		typ = TypePaid
	}
	return Key{Stage: rank, Type: typ, CreatedAt: CreatedAtKey(r.CreatedAt), Active: ok}
}

var objectionStageRank = map[status.ObjectionStatus]int{
	status.ObjectionInExecution: 0,
	status.ObjectionReceived:    1,
	status.ObjectionPending:     2,
}

// ObjectionKey ranks a legal objection. Objections have no paid type.
func ObjectionKey(r models.ObjectionRequest) Key {
	rank, ok := objectionStageRank[status.NormalizeObjection(r.Status)]
	return Key{Stage: rank, Type: TypeOther, CreatedAt: CreatedAtKey(r.CreatedAt), Active: ok}
}

var patentStageRank = map[status.PatentStatus]int{
	status.PatentReportInProgress: 0,
	status.PatentReceived:         1,
	status.PatentPending:          2,
}

// PatentKey ranks a patent deposit. Patents have no paid type.
func PatentKey(r models.PatentRequest) Key {
	rank, ok := patentStageRank[status.NormalizePatent(r.Status)]
	return Key{Stage: rank, Type: TypeOther, CreatedAt: CreatedAtKey(r.CreatedAt), Active: ok}
}

// OrderSearches is Order over trademark searches.
func OrderSearches(list []models.SearchRequest) []models.SearchRequest {
	return Order(list, SearchKey)
}

// SearchPositionAhead is Position over trademark searches, matched by id.
func SearchPositionAhead(target models.SearchRequest, active []models.SearchRequest) int {
	return Position(target, active, SearchKey, func(a, b models.SearchRequest) bool {
		return a.ID == b.ID
	})
}

// OrderObjections is Order over legal objections.
func OrderObjections(list []models.ObjectionRequest) []models.ObjectionRequest {
	return Order(list, ObjectionKey)
}

// OrderPatents is Order over patent deposits.
func OrderPatents(list []models.PatentRequest) []models.PatentRequest {
	return Order(list, PatentKey)
}

package permission

import (
	"context"
	"fmt"
	"sort"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// CapabilitySet is an unordered set of capability strings.
type CapabilitySet map[string]struct{}

// NewCapabilitySet builds a set from caps.
func NewCapabilitySet(caps ...string) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether c is granted, directly or by the wildcard.
func (s CapabilitySet) Has(c string) bool {
	if _, ok := s[Wildcard]; ok {
		return true
	}
	_, ok := s[c]
	return ok
}

// List returns the set sorted.
func (s CapabilitySet) List() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// MembershipSource looks a user up in each role table. A nil membership
// with a nil error means the user is not in that table.
type MembershipSource interface {
	Staff(ctx context.Context, userID string) (*models.Membership, error)
	Legal(ctx context.Context, userID string) (*models.Membership, error)
	Consultant(ctx context.Context, userID string) (*models.Membership, error)
}

// Resolver answers permission questions for a user id.
type Resolver struct {
	Source MembershipSource
}

func NewResolver(src MembershipSource) *Resolver {
	return &Resolver{Source: src}
}

// ResolveIdentity never fails: a lookup error counts as absence from that
// role table and is logged.
func (r *Resolver) ResolveIdentity(ctx context.Context, userID string) Identity {
	reqID := utils.RequestIDFromContext(ctx)
	lookup := func(rt models.RoleType, fn func(context.Context, string) (*models.Membership, error)) *models.Membership {
		m, err := fn(ctx, userID)
		if err != nil {
			utils.LogWarn(reqID, "permission", "resolve_identity",
				fmt.Sprintf("%s lookup failed for %s: %v", rt, userID, err))
			return nil
		}
		return m
	}

	id := Merge(
		lookup(models.RoleStaff, r.Source.Staff),
		lookup(models.RoleLegal, r.Source.Legal),
		lookup(models.RoleConsultant, r.Source.Consultant),
	)
	id.UserID = userID
	return id
}

// Capabilities resolves the identity and returns CapabilitiesFor it.
func (r *Resolver) Capabilities(ctx context.Context, userID string) CapabilitySet {
	return CapabilitiesFor(r.ResolveIdentity(ctx, userID))
}

// MenuItems resolves the identity and returns MenuFor it.
func (r *Resolver) MenuItems(ctx context.Context, userID string) []string {
	return MenuFor(r.ResolveIdentity(ctx, userID))
}

// CanAccessPage resolves the identity and returns PageAllowed for it.
func (r *Resolver) CanAccessPage(ctx context.Context, userID, page string) bool {
	return PageAllowed(r.ResolveIdentity(ctx, userID), page)
}

// CapabilitiesFor unions the capability tables of every held role and
// cargo. Admins get the wildcard.
func CapabilitiesFor(id Identity) CapabilitySet {
	if id.IsAdmin {
		return NewCapabilitySet(Wildcard)
	}
	set := CapabilitySet{}
	for _, rt := range id.RoleTypes {
		for _, c := range capabilityTable[roleCargo{rt, id.Cargos[rt]}] {
			set[c] = struct{}{}
		}
	}
	return set
}

// MenuFor unions the menu tables of every held role and cargo, drops the
// cost report unless allowed, and sorts by CanonicalMenuOrder. Unknown items
// follow in the order they were first seen.
func MenuFor(id Identity) []string {
	seen := map[string]bool{}
	var union []string
	for _, rt := range id.RoleTypes {
		for _, item := range menuTable[roleCargo{rt, id.Cargos[rt]}] {
			if seen[item] {
				continue
			}
			seen[item] = true
			union = append(union, item)
		}
	}
	if !costReportAllowed(id) {
		union = remove(union, MenuCostReport)
	}

	rank := make(map[string]int, len(CanonicalMenuOrder))
	for i, item := range CanonicalMenuOrder {
		rank[item] = i
	}
	out := make([]string, 0, len(union))
	for _, item := range CanonicalMenuOrder {
		if seen[item] && contains(union, item) {
			out = append(out, item)
		}
	}
	for _, item := range union {
		if _, known := rank[item]; !known {
			out = append(out, item)
		}
	}
	return out
}

// PageAllowed checks page against PageCapabilities. The cost report page
// only asks for admin or the finance cargo.
func PageAllowed(id Identity, page string) bool {
	if page == MenuCostReport {
		return costReportAllowed(id)
	}
	required, ok := PageCapabilities[page]
	if !ok {
		return true
	}
	return CapabilitiesFor(id).Has(required)
}

func costReportAllowed(id Identity) bool {
	return id.IsAdmin || id.HasCargo(CargoFinance)
}

func remove(list []string, item string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != item {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

// Package lifecycle moves requests through their workflow. Guards are pure
// functions that evaluate preconditions without side effects; the
// Orchestrator applies them before touching the Data Store.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/permission"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
)

// DefaultSuperAdminEmail is the one identity allowed to hard-delete searches
// when no other address is configured.
const DefaultSuperAdminEmail = "admin@buscas.com.br"

// Denial tells apart why a guard refused.
type Denial int

const (
	DenialNone Denial = iota
	DenialForbidden
	DenialConflict
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Denial  Denial
}

// Error converts the guard result to a domain error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Denial == DenialConflict {
		return domain.ConflictError{Resource: "status", Msg: r.Reason}
	}
	return domain.ForbiddenError{Msg: r.Reason}
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func forbid(format string, args ...any) GuardResult {
	return GuardResult{Reason: fmt.Sprintf(format, args...), Denial: DenialForbidden}
}

func conflict(format string, args ...any) GuardResult {
	return GuardResult{Reason: fmt.Sprintf(format, args...), Denial: DenialConflict}
}

// TransitionContext provides context for status transition guards.
type TransitionContext struct {
	Variant      status.Variant
	RequestID    string
	Current      string // raw persisted status
	Target       string
	Capabilities permission.CapabilitySet
}

// AttachContext provides context for attachment guards.
type AttachContext struct {
	Variant      status.Variant
	RequestID    string
	Current      string
	Capabilities permission.CapabilitySet
}

// ManageCapability is the capability every transition of v requires.
func ManageCapability(v status.Variant) string {
	switch v {
	case status.VariantSearch:
		return permission.CapManageSearches
	case status.VariantObjection:
		return permission.CapManageObjections
	case status.VariantPatent:
		return permission.CapManagePatents
	default:
		return ""
	}
}

// UploadCapability is the capability needed to attach results to v.
func UploadCapability(v status.Variant) string {
	switch v {
	case status.VariantSearch:
		return permission.CapUploadSearchResult
	case status.VariantObjection:
		return permission.CapUploadObjectionResult
	case status.VariantPatent:
		return permission.CapUploadPatentReport
	default:
		return ""
	}
}

// attachStages are the stages in which results may be attached.
var attachStages = map[status.Variant][]string{
	status.VariantSearch:    {string(status.SearchInReview), string(status.SearchCompleted)},
	status.VariantObjection: {string(status.ObjectionInExecution), string(status.ObjectionCompleted)},
	status.VariantPatent:    {string(status.PatentReportInProgress), string(status.PatentReportCompleted)},
}

// CanTransition evaluates whether a status change may be applied.
// Rules:
// - Actor must hold the variant's manage capability
// - Target must be exactly the next stage of the normalized current status
func CanTransition(ctx TransitionContext) GuardResult {
	capability := ManageCapability(ctx.Variant)
	if capability == "" {
		return conflict("unknown request type %q", ctx.Variant)
	}
	if !ctx.Capabilities.Has(capability) {
		return forbid("missing capability %s to change %s %s", capability, ctx.Variant, ctx.RequestID)
	}

	current := status.Normalize(ctx.Variant, ctx.Current)
	next, ok := status.Next(ctx.Variant, current)
	if !ok {
		return conflict("%s %s is already %s", ctx.Variant, ctx.RequestID, current)
	}
	target := strings.ToLower(strings.TrimSpace(ctx.Target))
	if target != next {
		return conflict("cannot move %s %s from %s to %q (next is %s)", ctx.Variant, ctx.RequestID, current, ctx.Target, next)
	}
	return allow()
}

// CanAttach evaluates whether a result file may be attached.
// Rules:
// - Actor must hold the variant's upload capability
// - The normalized current stage must unlock attachments
func CanAttach(ctx AttachContext) GuardResult {
	capability := UploadCapability(ctx.Variant)
	if capability == "" {
		return conflict("unknown request type %q", ctx.Variant)
	}
	if !ctx.Capabilities.Has(capability) {
		return forbid("missing capability %s to attach to %s %s", capability, ctx.Variant, ctx.RequestID)
	}

	current := status.Normalize(ctx.Variant, ctx.Current)
	for _, s := range attachStages[ctx.Variant] {
		if s == current {
			return allow()
		}
	}
	return conflict("%s %s does not accept attachments while %s", ctx.Variant, ctx.RequestID, current)
}

// IsSuperAdmin is the single exception to the capability model: the
// configured address may hard-delete any search.
func IsSuperAdmin(id permission.Identity, superAdminEmail string) bool {
	want := strings.TrimSpace(superAdminEmail)
	if want == "" {
		want = DefaultSuperAdminEmail
	}
	if strings.EqualFold(strings.TrimSpace(id.Email), want) {
		return true
	}
	for _, e := range id.Emails {
		if strings.EqualFold(strings.TrimSpace(e), want) {
			return true
		}
	}
	return false
}

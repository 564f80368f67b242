package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
)

type fakeSource struct {
	staff, legal, consultant          *models.Membership
	staffErr, legalErr, consultantErr error
	calls                             int
}

func (f *fakeSource) Staff(ctx context.Context, userID string) (*models.Membership, error) {
	f.calls++
	return f.staff, f.staffErr
}

func (f *fakeSource) Legal(ctx context.Context, userID string) (*models.Membership, error) {
	f.calls++
	return f.legal, f.legalErr
}

func (f *fakeSource) Consultant(ctx context.Context, userID string) (*models.Membership, error) {
	f.calls++
	return f.consultant, f.consultantErr
}

func member(rt models.RoleType, cargo, name, email string, admin bool) *models.Membership {
	return &models.Membership{UserID: "u1", Type: rt, Cargo: cargo, Name: name, Email: email, IsAdmin: admin}
}

func TestMergeNamePrecedence(t *testing.T) {
	id := Merge(
		member(models.RoleStaff, "staff", "", "staff@x.com", false),
		member(models.RoleLegal, "lawyer", "Dra. Lia", "lia@x.com", false),
		member(models.RoleConsultant, "consultant", "Lia C.", "", false),
	)
	if id.Name != "Dra. Lia" {
		t.Fatalf("name = %q, want legal name", id.Name)
	}
	if id.Email != "staff@x.com" {
		t.Fatalf("email = %q, want staff email", id.Email)
	}
	if len(id.RoleTypes) != 3 || id.IsAdmin {
		t.Fatalf("identity = %+v", id)
	}
}

func TestMergeAdminIsOred(t *testing.T) {
	id := Merge(nil, member(models.RoleLegal, "lawyer", "", "", false), member(models.RoleConsultant, "consultant", "", "", true))
	if !id.IsAdmin {
		t.Fatalf("expected admin override from consultant table")
	}
	caps := CapabilitiesFor(id)
	if !caps.Has(CapManagePatents) || !caps.Has("anything_at_all") {
		t.Fatalf("admin should hold the wildcard, got %v", caps.List())
	}
}

func TestMergeZeroMembershipsIsDefaultConsultant(t *testing.T) {
	id := Merge(nil, nil, nil)
	if !id.Default || id.IsAdmin {
		t.Fatalf("identity = %+v", id)
	}
	caps := CapabilitiesFor(id)
	want := NewCapabilitySet(consultantCaps...)
	if len(caps) != len(want) {
		t.Fatalf("caps = %v, want %v", caps.List(), want.List())
	}
	for c := range want {
		if !caps.Has(c) {
			t.Fatalf("missing %s", c)
		}
	}
}

func TestCapabilitiesUnionAcrossTables(t *testing.T) {
	id := Merge(member(models.RoleStaff, "engineer", "", "", false), member(models.RoleLegal, "lawyer", "", "", false), nil)
	caps := CapabilitiesFor(id)
	for _, c := range []string{CapManagePatents, CapUploadPatentReport, CapManageObjections, CapUploadObjectionResult} {
		if !caps.Has(c) {
			t.Fatalf("missing %s in %v", c, caps.List())
		}
	}
	if caps.Has(CapManageSearches) {
		t.Fatalf("engineer+lawyer must not manage searches")
	}
}

func TestMenuDropsCostReportWithoutFinance(t *testing.T) {
	appraiser := Merge(nil, nil, member(models.RoleConsultant, "appraiser", "", "", false))
	for _, item := range MenuFor(appraiser) {
		if item == MenuCostReport {
			t.Fatalf("appraiser menu contains cost report")
		}
	}

	finance := Merge(nil, nil, member(models.RoleConsultant, "finance", "", "", false))
	found := false
	for _, item := range MenuFor(finance) {
		if item == MenuCostReport {
			found = true
		}
	}
	if !found {
		t.Fatalf("finance menu lacks cost report")
	}
}

func TestMenuCanonicalOrder(t *testing.T) {
	id := Merge(member(models.RoleStaff, "staff", "", "", false), nil, member(models.RoleConsultant, "consultant", "", "", false))
	got := MenuFor(id)
	want := []string{
		MenuHome,
		MenuSearchRequest, MenuMySearches, MenuManageSearches,
		MenuObjectionRequest, MenuMyObjections,
		MenuPatentRequest, MenuMyPatents, MenuManagePatents,
	}
	if len(got) != len(want) {
		t.Fatalf("menu = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("menu = %v, want %v", got, want)
		}
	}
}

func TestMenuUnknownItemsAppended(t *testing.T) {
	key := roleCargo{models.RoleStaff, "intern"}
	menuTable[key] = []string{"zeta", MenuHome, "alpha"}
	defer delete(menuTable, key)

	got := MenuFor(Merge(member(models.RoleStaff, "intern", "", "", false), nil, nil))
	want := []string{MenuHome, "zeta", "alpha"}
	if len(got) != len(want) {
		t.Fatalf("menu = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("menu = %v, want %v", got, want)
		}
	}
}

func TestPageAllowed(t *testing.T) {
	consultant := DefaultIdentity("u1")
	staff := Merge(member(models.RoleStaff, "staff", "", "", false), nil, nil)
	finance := Merge(nil, nil, member(models.RoleConsultant, "finance", "", "", false))
	appraiser := Merge(nil, nil, member(models.RoleConsultant, "appraiser", "", "", false))

	tests := []struct {
		name string
		id   Identity
		page string
		want bool
	}{
		{"unmapped page", consultant, "help", true},
		{"consultant submits", consultant, MenuSearchRequest, true},
		{"consultant cannot manage", consultant, MenuManageSearches, false},
		{"staff manages searches", staff, MenuManageSearches, true},
		{"finance sees report", finance, MenuCostReport, true},
		{"appraiser capability is not enough", appraiser, MenuCostReport, false},
		{"staff has no report", staff, MenuCostReport, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageAllowed(tt.id, tt.page); got != tt.want {
				t.Fatalf("PageAllowed(%s) = %v, want %v", tt.page, got, tt.want)
			}
		})
	}
}

func TestResolverTreatsLookupErrorsAsAbsent(t *testing.T) {
	src := &fakeSource{
		staffErr:   errors.New("connection refused"),
		legal:      member(models.RoleLegal, "lawyer", "Lia", "", false),
		consultant: nil,
	}
	r := NewResolver(src)
	id := r.ResolveIdentity(context.Background(), "u1")
	if id.HasRole(models.RoleStaff) || !id.HasRole(models.RoleLegal) {
		t.Fatalf("roles = %v", id.RoleTypes)
	}
	if id.UserID != "u1" {
		t.Fatalf("user id = %q", id.UserID)
	}

	all := &fakeSource{staffErr: errors.New("x"), legalErr: errors.New("y"), consultantErr: errors.New("z")}
	caps := NewResolver(all).Capabilities(context.Background(), "u2")
	if !caps.Has(CapSubmitSearch) || caps.Has(CapManageSearches) {
		t.Fatalf("unreachable tables should degrade to consultant, got %v", caps.List())
	}
}

func TestResolverCanAccessPage(t *testing.T) {
	src := &fakeSource{staff: member(models.RoleStaff, "admin", "", "", true)}
	r := NewResolver(src)
	if !r.CanAccessPage(context.Background(), "u1", MenuCostReport) {
		t.Fatalf("admin must reach cost report")
	}
	if items := r.MenuItems(context.Background(), "u1"); len(items) == 0 || items[0] != MenuHome {
		t.Fatalf("menu = %v", items)
	}
}

func TestMenuLabel(t *testing.T) {
	if MenuLabel(MenuCostReport) != "Relatório de Custos" {
		t.Fatalf("label = %q", MenuLabel(MenuCostReport))
	}
	if MenuLabel("custom") != "custom" {
		t.Fatalf("unknown label should pass through")
	}
}

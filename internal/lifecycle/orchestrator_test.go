package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/mailer"
	"github.com/PedidoBuscas/Buscas-sub000/internal/permission"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
)

type fakeStore struct {
	requests map[string]*models.Request
	patches  []map[string]any
	deleted  []string
	getErr   error
	patchErr error
}

func (f *fakeStore) GetRequest(ctx context.Context, v status.Variant, id string) (*models.Request, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.requests[id]
	if !ok || r.Variant != v {
		return nil, domain.NotFoundError{Resource: string(v)}
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) UpdateFields(ctx context.Context, v status.Variant, id string, patch map[string]any) error {
	if f.patchErr != nil {
		return f.patchErr
	}
	f.patches = append(f.patches, patch)
	r := f.requests[id]
	if s, ok := patch["status"].(string); ok {
		r.Status = s
	}
	if a, ok := patch["attachments"].([]models.Attachment); ok {
		r.Attachments = a
	}
	if s, ok := patch["staff_id"].(string); ok {
		r.StaffID = s
	}
	return nil
}

func (f *fakeStore) DeleteRequest(ctx context.Context, v status.Variant, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.requests, id)
	return nil
}

type fakeFiles struct {
	keys []string
	err  error
}

func (f *fakeFiles) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://files.test/results/" + key, nil
}

type fakeMail struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMail) Send(ctx context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeIdentities map[string]permission.Identity

func (f fakeIdentities) ResolveIdentity(ctx context.Context, userID string) permission.Identity {
	if id, ok := f[userID]; ok {
		id.UserID = userID
		return id
	}
	return permission.DefaultIdentity(userID)
}

func identity(rt models.RoleType, cargo, email string) permission.Identity {
	return permission.Merge(
		pick(rt == models.RoleStaff, cargo, email),
		pick(rt == models.RoleLegal, cargo, email),
		pick(rt == models.RoleConsultant, cargo, email),
	)
}

func pick(ok bool, cargo, email string) *models.Membership {
	if !ok {
		return nil
	}
	return &models.Membership{Cargo: cargo, Email: email, Name: "N " + cargo}
}

type fixture struct {
	store *fakeStore
	files *fakeFiles
	mail  *fakeMail
	orch  *Orchestrator
}

func newFixture(reqs ...*models.Request) fixture {
	store := &fakeStore{requests: map[string]*models.Request{}}
	for _, r := range reqs {
		store.requests[r.ID] = r
	}
	ids := fakeIdentities{
		"staff-1":   identity(models.RoleStaff, "staff", "staff@buscas.com.br"),
		"lawyer-1":  identity(models.RoleLegal, "lawyer", "lawyer@buscas.com.br"),
		"legal-1":   identity(models.RoleLegal, "legal_staff", "legal@buscas.com.br"),
		"eng-1":     identity(models.RoleStaff, "engineer", "eng@buscas.com.br"),
		"owner-1":   identity(models.RoleConsultant, "consultant", "owner@buscas.com.br"),
		"root":      identity(models.RoleConsultant, "consultant", DefaultSuperAdminEmail),
		"not-staff": identity(models.RoleConsultant, "consultant", "c@buscas.com.br"),
	}
	f := fixture{store: store, files: &fakeFiles{}, mail: &fakeMail{}}
	f.orch = NewOrchestrator(store, f.files, f.mail, ids, "")
	f.orch.Now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return f
}

func actor(id string) domain.RequestContext {
	return domain.RequestContext{UserID: id, RequestID: "test"}
}

func pdf() Upload {
	return Upload{Filename: "Resultado Busca.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}
}

func TestAdvanceMovesOneStage(t *testing.T) {
	f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, OwnerID: "owner-1", Status: "pending"})
	got, err := f.orch.Advance(context.Background(), actor("staff-1"), status.VariantSearch, "s1", "received")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if got.Status != "received" || f.store.requests["s1"].Status != "received" {
		t.Fatalf("status = %s / %s", got.Status, f.store.requests["s1"].Status)
	}
}

func TestAdvanceRefusedWithoutCapabilityDoesNotWrite(t *testing.T) {
	f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, Status: "pending"})
	_, err := f.orch.Advance(context.Background(), actor("not-staff"), status.VariantSearch, "s1", "received")
	if !domain.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if len(f.store.patches) != 0 {
		t.Fatalf("guard failure must not write, got %v", f.store.patches)
	}
}

func TestAdvanceRejectsSkippedStage(t *testing.T) {
	f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, Status: "pending"})
	_, err := f.orch.Advance(context.Background(), actor("staff-1"), status.VariantSearch, "s1", "completed")
	if !domain.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if len(f.store.patches) != 0 {
		t.Fatalf("unexpected write")
	}
}

func TestAdvancePatentReceivedRecordsStaff(t *testing.T) {
	f := newFixture(&models.Request{ID: "p1", Variant: status.VariantPatent, Status: "pending"})
	got, err := f.orch.Advance(context.Background(), actor("eng-1"), status.VariantPatent, "p1", "received")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if got.StaffID != "eng-1" || f.store.patches[0]["staff_id"] != "eng-1" {
		t.Fatalf("staff id not recorded: %+v", f.store.patches)
	}
}

func TestAttachSearchInReviewCompletesAndMailsOnce(t *testing.T) {
	for _, sendErr := range []error{nil, errors.New("smtp down")} {
		f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, OwnerID: "owner-1", Status: "in_review", Subject: "Café Bom"})
		f.mail.err = sendErr

		out, err := f.orch.Attach(context.Background(), actor("staff-1"), status.VariantSearch, "s1", pdf())
		if err != nil {
			t.Fatalf("attach: %v", err)
		}
		if !out.Advanced || f.store.requests["s1"].Status != "completed" {
			t.Fatalf("expected auto-advance, status = %s", f.store.requests["s1"].Status)
		}
		if len(f.mail.sent) != 1 {
			t.Fatalf("e-mails attempted = %d, want 1", len(f.mail.sent))
		}
		msg := f.mail.sent[0]
		if len(msg.To) != 1 || msg.To[0] != "owner@buscas.com.br" {
			t.Fatalf("recipient = %v", msg.To)
		}
		if len(msg.Attachments) != 1 || msg.Attachments[0].Name != "Resultado_Busca.pdf" {
			t.Fatalf("attachment = %+v", msg.Attachments)
		}
		if sendErr != nil && (len(out.Warnings) != 1 || out.Notifications[0].Sent) {
			t.Fatalf("send failure must surface as a warning: %+v", out)
		}
		if sendErr == nil && (len(out.Warnings) != 0 || !out.Notifications[0].Sent) {
			t.Fatalf("unexpected warnings: %+v", out)
		}
		if len(f.store.requests["s1"].Attachments) != 1 {
			t.Fatalf("attachment not recorded")
		}
		if f.files.keys[0] != "search/s1/1710496800_Resultado_Busca.pdf" {
			t.Fatalf("object key = %s", f.files.keys[0])
		}
	}
}

func TestAttachCompletedSearchAppendsWithoutMail(t *testing.T) {
	f := newFixture(&models.Request{
		ID: "s1", Variant: status.VariantSearch, OwnerID: "owner-1", Status: "completed",
		Attachments: []models.Attachment{{Name: "first.pdf"}},
	})
	out, err := f.orch.Attach(context.Background(), actor("staff-1"), status.VariantSearch, "s1", pdf())
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if out.Advanced || len(f.mail.sent) != 0 {
		t.Fatalf("no transition and no mail expected: %+v", out)
	}
	got := f.store.requests["s1"].Attachments
	if len(got) != 2 || got[0].Name != "first.pdf" {
		t.Fatalf("attachments = %+v", got)
	}
}

func TestAttachObjectionOnlyLawyerAutoAdvances(t *testing.T) {
	f := newFixture(
		&models.Request{ID: "o1", Variant: status.VariantObjection, OwnerID: "owner-1", Status: "in_execution"},
		&models.Request{ID: "o2", Variant: status.VariantObjection, OwnerID: "owner-1", Status: "in_execution"},
	)

	out, err := f.orch.Attach(context.Background(), actor("legal-1"), status.VariantObjection, "o1", pdf())
	if err != nil {
		t.Fatalf("legal staff attach: %v", err)
	}
	if out.Advanced || f.store.requests["o1"].Status != "in_execution" {
		t.Fatalf("legal staff upload must not complete the objection")
	}
	if len(f.mail.sent) != 0 {
		t.Fatalf("no mail expected")
	}

	out, err = f.orch.Attach(context.Background(), actor("lawyer-1"), status.VariantObjection, "o2", pdf())
	if err != nil {
		t.Fatalf("lawyer attach: %v", err)
	}
	if !out.Advanced || f.store.requests["o2"].Status != "completed" {
		t.Fatalf("lawyer upload should complete the objection")
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("e-mails = %d, want 1", len(f.mail.sent))
	}
}

func TestAttachPatentMailsConsultantAndStaff(t *testing.T) {
	f := newFixture(&models.Request{
		ID: "p1", Variant: status.VariantPatent, OwnerID: "owner-1", Status: "report_in_progress", StaffID: "eng-1",
	})
	out, err := f.orch.Attach(context.Background(), actor("eng-1"), status.VariantPatent, "p1", pdf())
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if !out.Advanced || f.store.requests["p1"].Status != "report_completed" {
		t.Fatalf("expected report_completed")
	}
	if len(f.mail.sent) != 2 {
		t.Fatalf("e-mails = %d, want 2", len(f.mail.sent))
	}
	if f.mail.sent[0].To[0] != "owner@buscas.com.br" || f.mail.sent[1].To[0] != "eng@buscas.com.br" {
		t.Fatalf("recipients = %v, %v", f.mail.sent[0].To, f.mail.sent[1].To)
	}
}

type fakeUserEmails map[string]string

func (f fakeUserEmails) EmailByID(ctx context.Context, userID string) (string, error) {
	if e, ok := f[userID]; ok {
		return e, nil
	}
	return "", domain.NotFoundError{Resource: "user"}
}

func TestAttachMailsLoginEmailWhenNoRoleEmail(t *testing.T) {
	f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, OwnerID: "no-role", Status: "in_review"})
	f.orch.Users = fakeUserEmails{"no-role": "login@buscas.com.br"}

	out, err := f.orch.Attach(context.Background(), actor("staff-1"), status.VariantSearch, "s1", pdf())
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if len(f.mail.sent) != 1 || f.mail.sent[0].To[0] != "login@buscas.com.br" {
		t.Fatalf("recipients = %+v", f.mail.sent)
	}
	if len(out.Warnings) != 0 || !out.Notifications[0].Sent {
		t.Fatalf("unexpected warnings: %+v", out)
	}
}

func TestAttachRefusedBeforeUpload(t *testing.T) {
	f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, Status: "received"})
	_, err := f.orch.Attach(context.Background(), actor("staff-1"), status.VariantSearch, "s1", pdf())
	if !domain.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if len(f.files.keys) != 0 || len(f.store.patches) != 0 {
		t.Fatalf("nothing should be uploaded or written")
	}
}

func TestAttachUploadFailureWritesNothing(t *testing.T) {
	f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, Status: "in_review"})
	f.files.err = errors.New("bucket gone")
	_, err := f.orch.Attach(context.Background(), actor("staff-1"), status.VariantSearch, "s1", pdf())
	if !domain.IsUpstream(err) {
		t.Fatalf("err = %v, want upstream", err)
	}
	if len(f.store.patches) != 0 || len(f.mail.sent) != 0 {
		t.Fatalf("upload failure must abort before the write")
	}
}

func TestAttachEmptyFile(t *testing.T) {
	f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, Status: "in_review"})
	_, err := f.orch.Attach(context.Background(), actor("staff-1"), status.VariantSearch, "s1", Upload{Filename: "a.pdf"})
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestDeleteSearchOnlySuperAdmin(t *testing.T) {
	f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, Status: "pending"})

	err := f.orch.DeleteSearch(context.Background(), actor("staff-1"), "s1")
	if !domain.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if len(f.store.deleted) != 0 {
		t.Fatalf("refused delete must not touch the store")
	}

	if err := f.orch.DeleteSearch(context.Background(), actor("root"), "s1"); err != nil {
		t.Fatalf("super admin delete: %v", err)
	}
	if len(f.store.deleted) != 1 || f.store.deleted[0] != "s1" {
		t.Fatalf("deleted = %v", f.store.deleted)
	}

	if err := f.orch.DeleteSearch(context.Background(), actor("root"), "s1"); !domain.IsNotFound(err) {
		t.Fatalf("second delete err = %v, want not found", err)
	}
}

func TestDeleteSearchUsesLoginEmailWhenNoRoleEmail(t *testing.T) {
	f := newFixture(&models.Request{ID: "s1", Variant: status.VariantSearch, Status: "pending"})
	a := domain.RequestContext{UserID: "unknown", Email: DefaultSuperAdminEmail}
	if err := f.orch.DeleteSearch(context.Background(), a, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

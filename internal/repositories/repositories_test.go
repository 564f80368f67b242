package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
)

var searchCols = []string{"id", "owner_id", "status", "created_at", "attachments", "note",
	"trademark_name", "search_type", "classes", "specifications", "full_data"}

func newMock(t *testing.T) (sqlmock.Sqlmock, RequestRepository, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return mock, RequestRepository{DB: db, Now: func() string { return "2024-03-15T10:00:00Z" }}, func() { db.Close() }
}

func TestCreateSearchSetsPendingAndTimestamp(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO search_requests \\(id, owner_id, status, created_at, attachments, note, trademark_name, search_type, classes, specifications, full_data\\)").
		WithArgs(sqlmock.AnyArg(), "owner-1", "pending", "2024-03-15T10:00:00Z", "[]", "", "Café Bom", "paga", `["9"]`, "vestuário", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	got, err := repo.CreateSearch(context.Background(), models.SearchRequest{
		Request:        models.Request{OwnerID: "owner-1", Status: "completed"},
		TrademarkName:  "Café Bom",
		SearchType:     "paga",
		ClassesRaw:     `["9"]`,
		Specifications: "vestuário",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID == "" || got.Status != "pending" || got.Variant != status.VariantSearch {
		t.Fatalf("created = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePatentSkipsStaffColumn(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO patent_requests \\(id, owner_id, status, created_at, attachments, note, title, process_number, nature\\) VALUES").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := repo.CreatePatent(context.Background(), models.PatentRequest{Title: "Motor"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetSearchNormalizesStatusAndAttachments(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectQuery("SELECT .* FROM search_requests WHERE id = \\?").WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(searchCols).
			AddRow("s1", "owner-1", "archived", "2024-01-01", "{broken", "", "Marca", "", "[]", "", ""))

	got, err := repo.GetSearch(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != "pending" {
		t.Fatalf("status = %q, want pending", got.Status)
	}
	if got.Attachments == nil || len(got.Attachments) != 0 {
		t.Fatalf("attachments = %#v", got.Attachments)
	}
	if got.Subject != "Marca" {
		t.Fatalf("subject = %q", got.Subject)
	}
}

func TestGetRequestNotFound(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectQuery("FROM objection_requests").WithArgs("x").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetRequest(context.Background(), status.VariantObjection, "x")
	if !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListSearchesFiltersAfterNormalization(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectQuery("SELECT .* FROM search_requests WHERE 1=1 AND owner_id = \\? ORDER BY created_at ASC").
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(searchCols).
			AddRow("a", "owner-1", "weird", "", "", "", "A", "", "", "", "").
			AddRow("b", "owner-1", "completed", "", "", "", "B", "", "", "", "").
			AddRow("c", "owner-1", "in_review", "", "", "", "C", "", "", "", ""))

	got, err := repo.ListSearches(context.Background(), ListFilter{OwnerID: "owner-1", Statuses: []string{"pending", "in_review"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("got = %+v", got)
	}
}

func TestUpdateFieldsWhitelist(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectExec("UPDATE patent_requests SET status = \\?, attachments = \\?, staff_id = \\? WHERE id = \\?").
		WithArgs("received", `[{"name":"a.pdf","url":"u","uploaded_by":"x","uploaded_at":"t"}]`, "staff-1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateFields(context.Background(), status.VariantPatent, "p1", map[string]any{
		"staff_id":    "staff-1",
		"status":      "received",
		"attachments": []models.Attachment{{Name: "a.pdf", URL: "u", UploadedBy: "x", UploadedAt: "t"}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = repo.UpdateFields(context.Background(), status.VariantSearch, "s1", map[string]any{"staff_id": "x"})
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
	err = repo.UpdateFields(context.Background(), status.VariantSearch, "s1", map[string]any{"owner_id": "x"})
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteRequest(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM search_requests WHERE id = \\?").WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM search_requests WHERE id = \\?").WithArgs("s2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM search_requests WHERE id = \\?").WithArgs("s3").
		WillReturnError(errors.New("gone away"))

	if err := repo.DeleteRequest(context.Background(), status.VariantSearch, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteRequest(context.Background(), status.VariantSearch, "s2"); !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if err := repo.DeleteRequest(context.Background(), status.VariantSearch, "s3"); !domain.IsUpstream(err) {
		t.Fatalf("err = %v, want upstream", err)
	}
}

func TestRoleRepositoryAbsentIsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := RoleRepository{DB: db}

	mock.ExpectQuery("FROM staff_members").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email", "cargo", "is_admin"}))
	mock.ExpectQuery("FROM legal_members").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "email", "cargo", "is_admin"}).
			AddRow("u1", "Lia", "lia@x.com", "lawyer", true))

	m, err := repo.Staff(context.Background(), "u1")
	if err != nil || m != nil {
		t.Fatalf("staff = %+v, %v", m, err)
	}
	m, err = repo.Legal(context.Background(), "u1")
	if err != nil || m == nil {
		t.Fatalf("legal = %+v, %v", m, err)
	}
	if m.Type != models.RoleLegal || m.Cargo != "lawyer" || !m.IsAdmin {
		t.Fatalf("membership = %+v", m)
	}
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := UserRepository{DB: db}

	mock.ExpectQuery("FROM users WHERE LOWER\\(email\\) = \\?").WithArgs("ana@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}).AddRow("u1", "Ana@x.com", "hash"))
	mock.ExpectQuery("FROM users").WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}))

	u, err := repo.GetByEmail(context.Background(), " Ana@X.com ")
	if err != nil || u.ID != "u1" {
		t.Fatalf("user = %+v, %v", u, err)
	}
	if _, err := repo.GetByEmail(context.Background(), "nobody@x.com"); !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUserRepositoryEmailByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := UserRepository{DB: db}

	mock.ExpectQuery("FROM users WHERE id = \\?").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("ana@x.com"))
	mock.ExpectQuery("FROM users WHERE id = \\?").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"email"}))

	if got, err := repo.EmailByID(context.Background(), "u1"); err != nil || got != "ana@x.com" {
		t.Fatalf("email = %q, %v", got, err)
	}
	if _, err := repo.EmailByID(context.Background(), "ghost"); !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	intconfig "github.com/PedidoBuscas/Buscas-sub000/internal/config"
	intdb "github.com/PedidoBuscas/Buscas-sub000/internal/db"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// ListFilter narrows request listings. Statuses are compared after
// normalization, so rows with unknown statuses match "pending".
type ListFilter struct {
	OwnerID  string
	Statuses []string
	Newest   bool
}

type RequestRepository struct {
	DB  *sql.DB
	Now func() string
}

func (r RequestRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r RequestRepository) now() string {
	if r.Now != nil {
		return r.Now()
	}
	return utils.Timestamp(utils.NowUTC())
}

type variantTable struct {
	name    string
	columns []string // variant columns after the shared ones
	patch   map[string]bool
}

const baseColumns = "id, owner_id, COALESCE(status,''), COALESCE(created_at,''), COALESCE(attachments,''), COALESCE(note,'')"

var variantTables = map[status.Variant]variantTable{
	status.VariantSearch: {
		name:    "search_requests",
		columns: []string{"trademark_name", "search_type", "classes", "specifications", "full_data"},
		patch:   map[string]bool{"status": true, "attachments": true},
	},
	status.VariantObjection: {
		name:    "objection_requests",
		columns: []string{"case_description", "processes", "contract_numbers"},
		patch:   map[string]bool{"status": true, "attachments": true},
	},
	status.VariantPatent: {
		name:    "patent_requests",
		columns: []string{"title", "process_number", "nature", "staff_id"},
		patch:   map[string]bool{"status": true, "attachments": true, "staff_id": true},
	},
}

func tableFor(v status.Variant) (variantTable, error) {
	t, ok := variantTables[v]
	if !ok {
		return variantTable{}, domain.ValidationError{Field: "variant", Msg: fmt.Sprintf("unknown request type %q", v)}
	}
	return t, nil
}

func (t variantTable) selectColumns() string {
	cols := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		cols = append(cols, "COALESCE("+c+",'')")
	}
	return baseColumns + ", " + strings.Join(cols, ", ")
}

func upstream(err error) error {
	if err == nil {
		return nil
	}
	return domain.UpstreamError{Service: "data store", Err: err}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBase(v status.Variant, rs rowScanner, extra ...any) (models.Request, error) {
	var req models.Request
	var attachments string
	dest := append([]any{&req.ID, &req.OwnerID, &req.Status, &req.CreatedAt, &attachments, &req.Note}, extra...)
	if err := rs.Scan(dest...); err != nil {
		return req, err
	}
	req.Variant = v
	req.Status = status.Normalize(v, req.Status)
	req.Attachments = models.DecodeAttachments(attachments)
	return req, nil
}

func scanSearch(rs rowScanner) (models.SearchRequest, error) {
	var s models.SearchRequest
	base, err := scanBase(status.VariantSearch, rs, &s.TrademarkName, &s.SearchType, &s.ClassesRaw, &s.Specifications, &s.FullData)
	if err != nil {
		return s, err
	}
	s.Request = base
	s.Subject = s.TrademarkName
	return s, nil
}

func scanObjection(rs rowScanner) (models.ObjectionRequest, error) {
	var o models.ObjectionRequest
	base, err := scanBase(status.VariantObjection, rs, &o.CaseDescription, &o.Processes, &o.ContractNumbers)
	if err != nil {
		return o, err
	}
	o.Request = base
	o.Subject = o.CaseDescription
	return o, nil
}

func scanPatent(rs rowScanner) (models.PatentRequest, error) {
	var p models.PatentRequest
	var staffID string
	base, err := scanBase(status.VariantPatent, rs, &p.Title, &p.ProcessNumber, &p.Nature, &staffID)
	if err != nil {
		return p, err
	}
	p.Request = base
	p.StaffID = staffID
	p.Subject = p.Title
	return p, nil
}

func (r RequestRepository) insert(ctx context.Context, t variantTable, req *models.Request, values ...any) error {
	db := r.db()
	if db == nil {
		return upstream(errors.New("db not connected"))
	}
	req.ID = uuid.NewString()
	req.Status = status.Normalize(req.Variant, "")
	req.CreatedAt = r.now()
	if req.Attachments == nil {
		req.Attachments = []models.Attachment{}
	}

	cols := append([]string{"id", "owner_id", "status", "created_at", "attachments", "note"}, t.columns...)
	args := append([]any{req.ID, req.OwnerID, req.Status, req.CreatedAt, models.EncodeAttachments(req.Attachments), req.Note}, values...)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(cols[:len(args)], ", "), placeholders(len(args)))
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return upstream(err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (r RequestRepository) CreateSearch(ctx context.Context, s models.SearchRequest) (*models.SearchRequest, error) {
	s.Variant = status.VariantSearch
	err := r.insert(ctx, variantTables[status.VariantSearch], &s.Request,
		s.TrademarkName, s.SearchType, intdb.NullIfEmpty(s.ClassesRaw), s.Specifications, intdb.NullIfEmpty(s.FullData))
	if err != nil {
		return nil, err
	}
	s.Subject = s.TrademarkName
	return &s, nil
}

func (r RequestRepository) CreateObjection(ctx context.Context, o models.ObjectionRequest) (*models.ObjectionRequest, error) {
	o.Variant = status.VariantObjection
	err := r.insert(ctx, variantTables[status.VariantObjection], &o.Request,
		o.CaseDescription, o.Processes, o.ContractNumbers)
	if err != nil {
		return nil, err
	}
	o.Subject = o.CaseDescription
	return &o, nil
}

// CreatePatent leaves staff_id empty; it is set when staff receives the patent.
func (r RequestRepository) CreatePatent(ctx context.Context, p models.PatentRequest) (*models.PatentRequest, error) {
	p.Variant = status.VariantPatent
	p.StaffID = ""
	err := r.insert(ctx, variantTables[status.VariantPatent], &p.Request,
		p.Title, p.ProcessNumber, p.Nature)
	if err != nil {
		return nil, err
	}
	p.Subject = p.Title
	return &p, nil
}

func (r RequestRepository) queryRow(ctx context.Context, t variantTable, id string) (*sql.Row, error) {
	db := r.db()
	if db == nil {
		return nil, upstream(errors.New("db not connected"))
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? LIMIT 1", t.selectColumns(), t.name)
	return db.QueryRowContext(ctx, query, id), nil
}

func notFoundOr(v status.Variant, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: string(v), Err: err}
	}
	return upstream(err)
}

// GetRequest returns the shared fields of any variant.
func (r RequestRepository) GetRequest(ctx context.Context, v status.Variant, id string) (*models.Request, error) {
	switch v {
	case status.VariantSearch:
		s, err := r.GetSearch(ctx, id)
		if err != nil {
			return nil, err
		}
		return &s.Request, nil
	case status.VariantObjection:
		o, err := r.GetObjection(ctx, id)
		if err != nil {
			return nil, err
		}
		return &o.Request, nil
	case status.VariantPatent:
		p, err := r.GetPatent(ctx, id)
		if err != nil {
			return nil, err
		}
		return &p.Request, nil
	default:
		_, err := tableFor(v)
		return nil, err
	}
}

func (r RequestRepository) GetSearch(ctx context.Context, id string) (*models.SearchRequest, error) {
	row, err := r.queryRow(ctx, variantTables[status.VariantSearch], id)
	if err != nil {
		return nil, err
	}
	s, err := scanSearch(row)
	if err != nil {
		return nil, notFoundOr(status.VariantSearch, err)
	}
	return &s, nil
}

func (r RequestRepository) GetObjection(ctx context.Context, id string) (*models.ObjectionRequest, error) {
	row, err := r.queryRow(ctx, variantTables[status.VariantObjection], id)
	if err != nil {
		return nil, err
	}
	o, err := scanObjection(row)
	if err != nil {
		return nil, notFoundOr(status.VariantObjection, err)
	}
	return &o, nil
}

func (r RequestRepository) GetPatent(ctx context.Context, id string) (*models.PatentRequest, error) {
	row, err := r.queryRow(ctx, variantTables[status.VariantPatent], id)
	if err != nil {
		return nil, err
	}
	p, err := scanPatent(row)
	if err != nil {
		return nil, notFoundOr(status.VariantPatent, err)
	}
	return &p, nil
}

func (r RequestRepository) query(ctx context.Context, t variantTable, f ListFilter) (*sql.Rows, error) {
	db := r.db()
	if db == nil {
		return nil, upstream(errors.New("db not connected"))
	}
	where := []string{"1=1"}
	args := []any{}
	if owner := strings.TrimSpace(f.OwnerID); owner != "" {
		where = append(where, "owner_id = ?")
		args = append(args, owner)
	}
	order := "ASC"
	if f.Newest {
		order = "DESC"
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY created_at %s, id ASC",
		t.selectColumns(), t.name, strings.Join(where, " AND "), order)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, upstream(err)
	}
	return rows, nil
}

func (f ListFilter) keep(normalized string) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if s == normalized {
			return true
		}
	}
	return false
}

func (r RequestRepository) ListSearches(ctx context.Context, f ListFilter) ([]models.SearchRequest, error) {
	rows, err := r.query(ctx, variantTables[status.VariantSearch], f)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SearchRequest{}
	for rows.Next() {
		s, err := scanSearch(rows)
		if err != nil {
			return out, upstream(err)
		}
		if f.keep(s.Status) {
			out = append(out, s)
		}
	}
	return out, upstream(rows.Err())
}

func (r RequestRepository) ListObjections(ctx context.Context, f ListFilter) ([]models.ObjectionRequest, error) {
	rows, err := r.query(ctx, variantTables[status.VariantObjection], f)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ObjectionRequest{}
	for rows.Next() {
		o, err := scanObjection(rows)
		if err != nil {
			return out, upstream(err)
		}
		if f.keep(o.Status) {
			out = append(out, o)
		}
	}
	return out, upstream(rows.Err())
}

func (r RequestRepository) ListPatents(ctx context.Context, f ListFilter) ([]models.PatentRequest, error) {
	rows, err := r.query(ctx, variantTables[status.VariantPatent], f)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PatentRequest{}
	for rows.Next() {
		p, err := scanPatent(rows)
		if err != nil {
			return out, upstream(err)
		}
		if f.keep(p.Status) {
			out = append(out, p)
		}
	}
	return out, upstream(rows.Err())
}

// patchOrder keeps generated UPDATE statements stable.
var patchOrder = []string{"status", "attachments", "staff_id"}

// UpdateFields applies a partial update. Only whitelisted columns of the
// variant may be written; attachments are stored as a JSON array.
func (r RequestRepository) UpdateFields(ctx context.Context, v status.Variant, id string, patch map[string]any) error {
	t, err := tableFor(v)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return nil
	}
	db := r.db()
	if db == nil {
		return upstream(errors.New("db not connected"))
	}

	for col := range patch {
		if !t.patch[col] {
			return domain.ValidationError{Field: col, Msg: "column cannot be updated"}
		}
	}

	sets := []string{}
	args := []any{}
	for _, col := range patchOrder {
		val, ok := patch[col]
		if !ok {
			continue
		}
		switch x := val.(type) {
		case []models.Attachment:
			val = models.EncodeAttachments(x)
		case string:
			if col == "staff_id" {
				val = intdb.NullIfEmpty(x)
			}
		}
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, strings.Join(sets, ", "))
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return upstream(err)
	}
	return nil
}

func (r RequestRepository) DeleteRequest(ctx context.Context, v status.Variant, id string) error {
	t, err := tableFor(v)
	if err != nil {
		return err
	}
	db := r.db()
	if db == nil {
		return upstream(errors.New("db not connected"))
	}
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name), id)
	if err != nil {
		return upstream(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: string(v)}
	}
	return nil
}

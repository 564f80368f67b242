package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/mailer"
	"github.com/PedidoBuscas/Buscas-sub000/internal/permission"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
	"github.com/PedidoBuscas/Buscas-sub000/internal/storage"
	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// RequestStore is the slice of the Data Store the workflow writes through.
type RequestStore interface {
	GetRequest(ctx context.Context, v status.Variant, id string) (*models.Request, error)
	UpdateFields(ctx context.Context, v status.Variant, id string, patch map[string]any) error
	DeleteRequest(ctx context.Context, v status.Variant, id string) error
}

// FileStore keeps uploaded result files.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// IdentityResolver is satisfied by *permission.Resolver.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) permission.Identity
}

// UserDirectory returns the login e-mail of a user.
type UserDirectory interface {
	EmailByID(ctx context.Context, userID string) (string, error)
}

// Upload is a result file sent by staff.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Notification records one e-mail attempt.
type Notification struct {
	To   string `json:"to"`
	Kind string `json:"kind"`
	Sent bool   `json:"sent"`
	Err  string `json:"error,omitempty"`
}

// Outcome of an attachment. Request reflects the committed write even when
// notifications failed.
type Outcome struct {
	Request       models.Request `json:"request"`
	Advanced      bool           `json:"advanced"`
	FileURL       string         `json:"file_url"`
	Notifications []Notification `json:"notifications"`
	Warnings      []string       `json:"warnings"`
}

// Orchestrator applies guarded transitions and attachment uploads.
type Orchestrator struct {
	Store           RequestStore
	Files           FileStore
	Mail            mailer.Sender
	Identities      IdentityResolver
	Users           UserDirectory
	SuperAdminEmail string
	Now             func() time.Time
}

func NewOrchestrator(store RequestStore, files FileStore, mail mailer.Sender, ids IdentityResolver, superAdminEmail string) *Orchestrator {
	return &Orchestrator{
		Store:           store,
		Files:           files,
		Mail:            mail,
		Identities:      ids,
		SuperAdminEmail: superAdminEmail,
		Now:             utils.NowUTC,
	}
}

const module = "lifecycle"

// Advance moves a request exactly one stage forward. Capabilities are
// resolved before the request is read; a refused guard writes nothing.
func (o *Orchestrator) Advance(ctx context.Context, actor domain.RequestContext, v status.Variant, requestID, target string) (*models.Request, error) {
	caps := permission.CapabilitiesFor(o.Identities.ResolveIdentity(ctx, actor.UserID))

	req, err := o.Store.GetRequest(ctx, v, requestID)
	if err != nil {
		return nil, err
	}

	guard := CanTransition(TransitionContext{
		Variant:      v,
		RequestID:    requestID,
		Current:      req.Status,
		Target:       target,
		Capabilities: caps,
	})
	if !guard.Allowed {
		utils.LogWarn(actor.RequestID, module, "advance", guard.Reason)
		return nil, guard.Error()
	}

	next := status.Normalize(v, strings.TrimSpace(strings.ToLower(target)))
	patch := map[string]any{"status": next}
	if v == status.VariantPatent && next == string(status.PatentReceived) {
		patch["staff_id"] = actor.UserID
		req.StaffID = actor.UserID
	}
	if err := o.Store.UpdateFields(ctx, v, requestID, patch); err != nil {
		utils.LogError(actor.RequestID, module, "advance", err)
		return nil, err
	}

	req.Status = next
	utils.LogEvent(actor.RequestID, module, "advance", fmt.Sprintf("%s %s -> %s by %s", v, requestID, next, actor.UserID))
	return req, nil
}

// Attach uploads a result file and records it, auto-advancing when the
// stage and actor allow it. The write is committed before any e-mail is
// attempted, and mail failures never undo it.
func (o *Orchestrator) Attach(ctx context.Context, actor domain.RequestContext, v status.Variant, requestID string, up Upload) (*Outcome, error) {
	identity := o.Identities.ResolveIdentity(ctx, actor.UserID)
	caps := permission.CapabilitiesFor(identity)

	if len(up.Data) == 0 {
		return nil, domain.ValidationError{Field: "file", Msg: "arquivo vazio"}
	}

	req, err := o.Store.GetRequest(ctx, v, requestID)
	if err != nil {
		return nil, err
	}

	guard := CanAttach(AttachContext{
		Variant:      v,
		RequestID:    requestID,
		Current:      req.Status,
		Capabilities: caps,
	})
	if !guard.Allowed {
		utils.LogWarn(actor.RequestID, module, "attach", guard.Reason)
		return nil, guard.Error()
	}

	now := o.now()
	name := storage.SanitizeFilename(up.Filename)
	url, err := o.Files.Upload(ctx, storage.ObjectKey(string(v), requestID, name, now), up.Data, up.ContentType)
	if err != nil {
		utils.LogError(actor.RequestID, module, "attach", err)
		return nil, domain.UpstreamError{Service: "file store", Err: err}
	}

	attachments := append(append([]models.Attachment{}, req.Attachments...), models.Attachment{
		Name:       name,
		URL:        url,
		UploadedBy: actor.UserID,
		UploadedAt: utils.Timestamp(now),
	})
	patch := map[string]any{"attachments": attachments}

	advanced := false
	if next, ok := autoAdvance(v, req.Status, identity); ok {
		patch["status"] = next
		req.Status = next
		advanced = true
	}

	if err := o.Store.UpdateFields(ctx, v, requestID, patch); err != nil {
		utils.LogError(actor.RequestID, module, "attach", fmt.Errorf("file %s uploaded but not recorded: %w", url, err))
		return nil, err
	}
	req.Attachments = attachments

	out := &Outcome{Request: *req, Advanced: advanced, FileURL: url}
	utils.LogEvent(actor.RequestID, module, "attach", fmt.Sprintf("%s %s file=%s advanced=%t", v, requestID, name, advanced))

	if advanced {
		o.notify(ctx, actor, v, req, mailer.File{Name: name, Data: up.Data}, url, out)
	}
	return out, nil
}

// autoAdvance returns the stage an upload completes, if any. Objections
// only complete when the uploader is a lawyer.
func autoAdvance(v status.Variant, current string, actor permission.Identity) (string, bool) {
	switch v {
	case status.VariantSearch:
		if status.NormalizeSearch(current) == status.SearchInReview {
			return string(status.SearchCompleted), true
		}
	case status.VariantObjection:
		if status.NormalizeObjection(current) == status.ObjectionInExecution &&
			actor.CargoIn(models.RoleLegal) == permission.CargoLawyer {
			return string(status.ObjectionCompleted), true
		}
	case status.VariantPatent:
		if status.NormalizePatent(current) == status.PatentReportInProgress {
			return string(status.PatentReportCompleted), true
		}
	}
	return "", false
}

type recipient struct {
	kind  mailer.Kind
	email string
	name  string
}

func (o *Orchestrator) notify(ctx context.Context, actor domain.RequestContext, v status.Variant, req *models.Request, file mailer.File, url string, out *Outcome) {
	owner := o.Identities.ResolveIdentity(ctx, req.OwnerID)
	consultant := recipient{
		email: utils.FirstNonEmpty(owner.Emails[models.RoleConsultant], owner.Email),
		name:  utils.FirstNonEmpty(owner.Names[models.RoleConsultant], owner.Name),
	}
	if consultant.email == "" {
		consultant.email = o.loginEmail(ctx, actor.RequestID, req.OwnerID)
	}

	var list []recipient
	switch v {
	case status.VariantSearch:
		consultant.kind = mailer.KindSearchCompleted
		list = []recipient{consultant}
	case status.VariantObjection:
		consultant.kind = mailer.KindObjectionCompleted
		list = []recipient{consultant}
	case status.VariantPatent:
		consultant.kind = mailer.KindPatentReportConsultant
		staff := recipient{kind: mailer.KindPatentReportStaff}
		if req.StaffID != "" {
			s := o.Identities.ResolveIdentity(ctx, req.StaffID)
			staff.email = utils.FirstNonEmpty(s.Emails[models.RoleStaff], s.Email)
			staff.name = utils.FirstNonEmpty(s.Names[models.RoleStaff], s.Name)
			if staff.email == "" {
				staff.email = o.loginEmail(ctx, actor.RequestID, req.StaffID)
			}
		}
		list = []recipient{consultant, staff}
	}

	for _, r := range list {
		n := Notification{To: r.email, Kind: string(r.kind)}
		if err := o.send(ctx, r, req, file, url); err != nil {
			n.Err = err.Error()
			warning := fmt.Sprintf("e-mail %s para %q não enviado: %v", r.kind, r.email, err)
			out.Warnings = append(out.Warnings, warning)
			utils.LogWarn(actor.RequestID, module, "notify", warning)
		} else {
			n.Sent = true
		}
		out.Notifications = append(out.Notifications, n)
	}
}

// loginEmail is the fallback for users without an e-mail on any role row.
func (o *Orchestrator) loginEmail(ctx context.Context, requestID, userID string) string {
	if o.Users == nil || userID == "" {
		return ""
	}
	email, err := o.Users.EmailByID(ctx, userID)
	if err != nil {
		utils.LogWarn(requestID, module, "notify", fmt.Sprintf("login e-mail of %s: %v", userID, err))
		return ""
	}
	return strings.TrimSpace(email)
}

func (o *Orchestrator) send(ctx context.Context, r recipient, req *models.Request, file mailer.File, url string) error {
	subject, body, err := mailer.Render(r.kind, mailer.BodyData{
		RecipientName: r.name,
		Headline:      utils.FirstNonEmpty(req.Subject, req.ID),
		RequestID:     req.ID,
		FileName:      file.Name,
		FileURL:       url,
	})
	if err != nil {
		return err
	}
	return o.Mail.Send(ctx, mailer.Message{
		To:          []string{r.email},
		Subject:     subject,
		HTMLBody:    body,
		Attachments: []mailer.File{file},
	})
}

// DeleteSearch hard-deletes a search. Only the super admin may do it.
func (o *Orchestrator) DeleteSearch(ctx context.Context, actor domain.RequestContext, requestID string) error {
	identity := o.Identities.ResolveIdentity(ctx, actor.UserID)
	if identity.Email == "" {
		identity.Email = actor.Email
	}
	if !IsSuperAdmin(identity, o.SuperAdminEmail) {
		utils.LogWarn(actor.RequestID, module, "delete", fmt.Sprintf("%s refused delete of search %s", actor.UserID, requestID))
		return domain.ForbiddenError{Action: "delete searches"}
	}

	if _, err := o.Store.GetRequest(ctx, status.VariantSearch, requestID); err != nil {
		return err
	}
	if err := o.Store.DeleteRequest(ctx, status.VariantSearch, requestID); err != nil {
		utils.LogError(actor.RequestID, module, "delete", err)
		return err
	}
	utils.LogEvent(actor.RequestID, module, "delete", fmt.Sprintf("search %s deleted by %s", requestID, actor.UserID))
	return nil
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return utils.NowUTC()
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
	"github.com/PedidoBuscas/Buscas-sub000/internal/permission"
	"github.com/PedidoBuscas/Buscas-sub000/internal/priority"
	"github.com/PedidoBuscas/Buscas-sub000/internal/repositories"
	"github.com/PedidoBuscas/Buscas-sub000/internal/status"
	"github.com/PedidoBuscas/Buscas-sub000/internal/utils"
)

// RequestRepo is the part of the Data Store the request screens read and
// create through.
type RequestRepo interface {
	CreateSearch(ctx context.Context, s models.SearchRequest) (*models.SearchRequest, error)
	CreateObjection(ctx context.Context, o models.ObjectionRequest) (*models.ObjectionRequest, error)
	CreatePatent(ctx context.Context, p models.PatentRequest) (*models.PatentRequest, error)
	GetSearch(ctx context.Context, id string) (*models.SearchRequest, error)
	ListSearches(ctx context.Context, f repositories.ListFilter) ([]models.SearchRequest, error)
	ListObjections(ctx context.Context, f repositories.ListFilter) ([]models.ObjectionRequest, error)
	ListPatents(ctx context.Context, f repositories.ListFilter) ([]models.PatentRequest, error)
}

// CapabilityResolver is satisfied by *permission.Resolver.
type CapabilityResolver interface {
	Capabilities(ctx context.Context, userID string) permission.CapabilitySet
}

type RequestService struct {
	Requests    RequestRepo
	Permissions CapabilityResolver
}

// StatusGroup is one status section of a "my requests" listing.
type StatusGroup[T any] struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Items  []T    `json:"items"`
}

// SearchInput is what a consultant submits for a trademark search.
type SearchInput struct {
	TrademarkName  string          `json:"trademark_name"`
	SearchType     string          `json:"search_type"`
	Classes        []string        `json:"classes"`
	Specifications string          `json:"specifications"`
	FullData       json.RawMessage `json:"full_data"`
	Note           string          `json:"note"`
}

type ObjectionInput struct {
	CaseDescription string `json:"case_description"`
	Processes       string `json:"processes"`
	ContractNumbers string `json:"contract_numbers"`
	Note            string `json:"note"`
}

type PatentInput struct {
	Title         string `json:"title"`
	ProcessNumber string `json:"process_number"`
	Nature        string `json:"nature"`
	Note          string `json:"note"`
}

const requestModule = "requests"

func (s RequestService) require(ctx context.Context, actor domain.RequestContext, capability string) error {
	if !s.Permissions.Capabilities(ctx, actor.UserID).Has(capability) {
		utils.LogWarn(actor.RequestID, requestModule, "guard", fmt.Sprintf("%s lacks %s", actor.UserID, capability))
		return domain.ForbiddenError{Action: capability}
	}
	return nil
}

func (s RequestService) CreateSearch(ctx context.Context, actor domain.RequestContext, in SearchInput) (*models.SearchRequest, error) {
	if err := s.require(ctx, actor, permission.CapSubmitSearch); err != nil {
		return nil, err
	}
	name := utils.NormalizeSpace(in.TrademarkName)
	if name == "" {
		return nil, domain.ValidationError{Field: "trademark_name", Msg: "nome da marca é obrigatório"}
	}

	classes := []string{}
	for _, c := range in.Classes {
		if c = strings.TrimSpace(c); c != "" {
			classes = append(classes, c)
		}
	}
	rawClasses := ""
	if len(classes) > 0 {
		b, err := json.Marshal(classes)
		if err != nil {
			return nil, domain.ValidationError{Field: "classes", Err: err}
		}
		rawClasses = string(b)
	}
	fullData := strings.TrimSpace(string(in.FullData))
	if fullData != "" && !json.Valid(in.FullData) {
		return nil, domain.ValidationError{Field: "full_data", Msg: "JSON inválido"}
	}

	out, err := s.Requests.CreateSearch(ctx, models.SearchRequest{
		Request:        models.Request{OwnerID: actor.UserID, Note: strings.TrimSpace(in.Note)},
		TrademarkName:  name,
		SearchType:     strings.ToLower(strings.TrimSpace(in.SearchType)),
		ClassesRaw:     rawClasses,
		Specifications: strings.TrimSpace(in.Specifications),
		FullData:       fullData,
	})
	if err != nil {
		utils.LogError(actor.RequestID, requestModule, "create_search", err)
		return nil, err
	}
	utils.LogEvent(actor.RequestID, requestModule, "create_search", fmt.Sprintf("id=%s classes=%d", out.ID, len(out.Classes())))
	return out, nil
}

func (s RequestService) CreateObjection(ctx context.Context, actor domain.RequestContext, in ObjectionInput) (*models.ObjectionRequest, error) {
	if err := s.require(ctx, actor, permission.CapSubmitObjection); err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(in.CaseDescription)
	if desc == "" {
		return nil, domain.ValidationError{Field: "case_description", Msg: "descrição do caso é obrigatória"}
	}
	out, err := s.Requests.CreateObjection(ctx, models.ObjectionRequest{
		Request:         models.Request{OwnerID: actor.UserID, Note: strings.TrimSpace(in.Note)},
		CaseDescription: desc,
		Processes:       strings.Join(utils.SplitList(in.Processes), ", "),
		ContractNumbers: strings.Join(utils.SplitList(in.ContractNumbers), ", "),
	})
	if err != nil {
		utils.LogError(actor.RequestID, requestModule, "create_objection", err)
		return nil, err
	}
	utils.LogEvent(actor.RequestID, requestModule, "create_objection", "id="+out.ID)
	return out, nil
}

func (s RequestService) CreatePatent(ctx context.Context, actor domain.RequestContext, in PatentInput) (*models.PatentRequest, error) {
	if err := s.require(ctx, actor, permission.CapSubmitPatent); err != nil {
		return nil, err
	}
	title := utils.NormalizeSpace(in.Title)
	if title == "" {
		return nil, domain.ValidationError{Field: "title", Msg: "título é obrigatório"}
	}
	out, err := s.Requests.CreatePatent(ctx, models.PatentRequest{
		Request:       models.Request{OwnerID: actor.UserID, Note: strings.TrimSpace(in.Note)},
		Title:         title,
		ProcessNumber: strings.TrimSpace(in.ProcessNumber),
		Nature:        strings.TrimSpace(in.Nature),
	})
	if err != nil {
		utils.LogError(actor.RequestID, requestModule, "create_patent", err)
		return nil, err
	}
	utils.LogEvent(actor.RequestID, requestModule, "create_patent", "id="+out.ID)
	return out, nil
}

// GroupByStatus buckets items by normalized status in workflow order,
// keeping empty groups so screens can show every stage.
func GroupByStatus[T any](v status.Variant, items []T, statusOf func(T) string) []StatusGroup[T] {
	groups := []StatusGroup[T]{}
	index := map[string]int{}
	for _, st := range status.Statuses(v) {
		index[st] = len(groups)
		groups = append(groups, StatusGroup[T]{
			Status: st,
			Label:  status.DisplayText(v, st),
			Icon:   status.Icon(v, st),
			Items:  []T{},
		})
	}
	for _, it := range items {
		i, ok := index[status.Normalize(v, statusOf(it))]
		if !ok {
			continue
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

func (s RequestService) MySearches(ctx context.Context, actor domain.RequestContext) ([]StatusGroup[models.SearchRequest], error) {
	if err := s.require(ctx, actor, permission.CapViewOwnRequests); err != nil {
		return nil, err
	}
	list, err := s.Requests.ListSearches(ctx, repositories.ListFilter{OwnerID: actor.UserID, Newest: true})
	if err != nil {
		return nil, err
	}
	return GroupByStatus(status.VariantSearch, list, func(r models.SearchRequest) string { return r.Status }), nil
}

func (s RequestService) MyObjections(ctx context.Context, actor domain.RequestContext) ([]StatusGroup[models.ObjectionRequest], error) {
	if err := s.require(ctx, actor, permission.CapViewOwnRequests); err != nil {
		return nil, err
	}
	list, err := s.Requests.ListObjections(ctx, repositories.ListFilter{OwnerID: actor.UserID, Newest: true})
	if err != nil {
		return nil, err
	}
	return GroupByStatus(status.VariantObjection, list, func(r models.ObjectionRequest) string { return r.Status }), nil
}

func (s RequestService) MyPatents(ctx context.Context, actor domain.RequestContext) ([]StatusGroup[models.PatentRequest], error) {
	if err := s.require(ctx, actor, permission.CapViewOwnRequests); err != nil {
		return nil, err
	}
	list, err := s.Requests.ListPatents(ctx, repositories.ListFilter{OwnerID: actor.UserID, Newest: true})
	if err != nil {
		return nil, err
	}
	return GroupByStatus(status.VariantPatent, list, func(r models.PatentRequest) string { return r.Status }), nil
}

func activeStatuses(v status.Variant) []string {
	out := []string{}
	for _, st := range status.Statuses(v) {
		if !status.IsTerminal(v, st) {
			out = append(out, st)
		}
	}
	return out
}

// SearchQueue is the staff work list in processing order.
func (s RequestService) SearchQueue(ctx context.Context, actor domain.RequestContext) ([]models.SearchRequest, error) {
	if err := s.require(ctx, actor, permission.CapManageSearches); err != nil {
		return nil, err
	}
	list, err := s.Requests.ListSearches(ctx, repositories.ListFilter{Statuses: activeStatuses(status.VariantSearch)})
	if err != nil {
		return nil, err
	}
	return priority.OrderSearches(list), nil
}

func (s RequestService) ObjectionQueue(ctx context.Context, actor domain.RequestContext) ([]models.ObjectionRequest, error) {
	if err := s.require(ctx, actor, permission.CapManageObjections); err != nil {
		return nil, err
	}
	list, err := s.Requests.ListObjections(ctx, repositories.ListFilter{Statuses: activeStatuses(status.VariantObjection)})
	if err != nil {
		return nil, err
	}
	return priority.OrderObjections(list), nil
}

func (s RequestService) PatentQueue(ctx context.Context, actor domain.RequestContext) ([]models.PatentRequest, error) {
	if err := s.require(ctx, actor, permission.CapManagePatents); err != nil {
		return nil, err
	}
	list, err := s.Requests.ListPatents(ctx, repositories.ListFilter{Statuses: activeStatuses(status.VariantPatent)})
	if err != nil {
		return nil, err
	}
	return priority.OrderPatents(list), nil
}

// SearchPosition tells how many active searches are ahead of id. The owner
// and search staff may ask; anyone else gets not found whether or not the id
// exists. -1 means the search is no longer queued.
func (s RequestService) SearchPosition(ctx context.Context, actor domain.RequestContext, id string) (int, error) {
	staff := s.Permissions.Capabilities(ctx, actor.UserID).Has(permission.CapManageSearches)
	target, err := s.Requests.GetSearch(ctx, id)
	if err != nil {
		return -1, err
	}
	if target.OwnerID != actor.UserID && !staff {
		utils.LogWarn(actor.RequestID, requestModule, "search_position", fmt.Sprintf("%s is not the owner of %s", actor.UserID, id))
		return -1, domain.NotFoundError{Resource: "search"}
	}
	active, err := s.Requests.ListSearches(ctx, repositories.ListFilter{Statuses: activeStatuses(status.VariantSearch)})
	if err != nil {
		return -1, err
	}
	return priority.SearchPositionAhead(*target, active), nil
}

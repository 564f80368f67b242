package permission

import "github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"

// Wildcard grants every capability.
const Wildcard = "*"

// Capabilities.
const (
	CapSubmitSearch          = "submit_search"
	CapSubmitObjection       = "submit_objection"
	CapSubmitPatent          = "submit_patent"
	CapViewOwnRequests       = "view_own_requests"
	CapManageSearches        = "manage_searches"
	CapManageObjections      = "manage_objections"
	CapManagePatents         = "manage_patents"
	CapUploadSearchResult    = "upload_search_result"
	CapUploadObjectionResult = "upload_objection_result"
	CapUploadPatentReport    = "upload_patent_report"
	CapViewCostReport        = "view_cost_report"
	CapManageSettings        = "manage_settings"
)

// Menu items.
const (
	MenuHome             = "home"
	MenuSearchRequest    = "search_request"
	MenuMySearches       = "my_searches"
	MenuManageSearches   = "manage_searches"
	MenuObjectionRequest = "objection_request"
	MenuMyObjections     = "my_objections"
	MenuManageObjections = "manage_objections"
	MenuPatentRequest    = "patent_request"
	MenuMyPatents        = "my_patents"
	MenuManagePatents    = "manage_patents"
	MenuCostReport       = "cost_report"
	MenuSettings         = "settings"
)

type roleCargo struct {
	role  models.RoleType
	cargo string
}

var consultantCaps = []string{
	CapSubmitSearch, CapSubmitObjection, CapSubmitPatent, CapViewOwnRequests,
}

var consultantMenu = []string{
	MenuHome,
	MenuSearchRequest, MenuMySearches,
	MenuObjectionRequest, MenuMyObjections,
	MenuPatentRequest, MenuMyPatents,
}

var capabilityTable = map[roleCargo][]string{
	{models.RoleStaff, "staff"}: {
		CapManageSearches, CapManagePatents, CapUploadSearchResult, CapUploadPatentReport,
	},
	{models.RoleStaff, "engineer"}: {
		CapManagePatents, CapUploadPatentReport,
	},
	{models.RoleStaff, "admin"}: {
		CapManageSearches, CapManageObjections, CapManagePatents,
		CapUploadSearchResult, CapUploadObjectionResult, CapUploadPatentReport,
		CapViewCostReport, CapManageSettings,
	},
	{models.RoleLegal, "lawyer"}: {
		CapManageObjections, CapUploadObjectionResult,
	},
	{models.RoleLegal, "legal_staff"}: {
		CapManageObjections, CapUploadObjectionResult,
	},
	{models.RoleLegal, "admin"}: {
		CapManageObjections, CapUploadObjectionResult, CapViewCostReport, CapManageSettings,
	},
	{models.RoleConsultant, "consultant"}: consultantCaps,
	{models.RoleConsultant, "appraiser"}: {
		CapSubmitSearch, CapViewOwnRequests, CapViewCostReport,
	},
	{models.RoleConsultant, "finance"}: {
		CapSubmitSearch, CapSubmitObjection, CapSubmitPatent, CapViewOwnRequests, CapViewCostReport,
	},
	{models.RoleConsultant, "admin"}: {
		CapSubmitSearch, CapSubmitObjection, CapSubmitPatent, CapViewOwnRequests,
		CapViewCostReport, CapManageSettings,
	},
}

var menuTable = map[roleCargo][]string{
	{models.RoleStaff, "staff"}:    {MenuHome, MenuManageSearches, MenuManagePatents},
	{models.RoleStaff, "engineer"}: {MenuHome, MenuManagePatents},
	{models.RoleStaff, "admin"}: {
		MenuHome, MenuManageSearches, MenuManageObjections, MenuManagePatents, MenuCostReport, MenuSettings,
	},

	{models.RoleLegal, "lawyer"}:      {MenuHome, MenuManageObjections},
	{models.RoleLegal, "legal_staff"}: {MenuHome, MenuManageObjections},
	{models.RoleLegal, "admin"}:       {MenuHome, MenuManageObjections, MenuCostReport, MenuSettings},

	// Appraisers see the report item in the table; the finance filter removes it.
	{models.RoleConsultant, "consultant"}: consultantMenu,
	{models.RoleConsultant, "appraiser"}:  {MenuHome, MenuSearchRequest, MenuMySearches, MenuCostReport},
	{models.RoleConsultant, "finance"}:    append(append([]string{}, consultantMenu...), MenuCostReport),
	{models.RoleConsultant, "admin"}:      append(append([]string{}, consultantMenu...), MenuCostReport, MenuSettings),
}

// CanonicalMenuOrder is the display order of known menu items.
var CanonicalMenuOrder = []string{
	MenuHome,
	MenuSearchRequest, MenuMySearches, MenuManageSearches,
	MenuObjectionRequest, MenuMyObjections, MenuManageObjections,
	MenuPatentRequest, MenuMyPatents, MenuManagePatents,
	MenuCostReport,
	MenuSettings,
}

// PageCapabilities maps a page to the capability it requires. Pages not
// listed are open to every authenticated user. The cost report page is
// checked separately.
var PageCapabilities = map[string]string{
	MenuSearchRequest:    CapSubmitSearch,
	MenuMySearches:       CapViewOwnRequests,
	MenuManageSearches:   CapManageSearches,
	MenuObjectionRequest: CapSubmitObjection,
	MenuMyObjections:     CapViewOwnRequests,
	MenuManageObjections: CapManageObjections,
	MenuPatentRequest:    CapSubmitPatent,
	MenuMyPatents:        CapViewOwnRequests,
	MenuManagePatents:    CapManagePatents,
	MenuSettings:         CapManageSettings,
}

var menuLabels = map[string]string{
	MenuHome:             "Início",
	MenuSearchRequest:    "Solicitar Busca",
	MenuMySearches:       "Minhas Buscas",
	MenuManageSearches:   "Gerenciar Buscas",
	MenuObjectionRequest: "Solicitar Oposição",
	MenuMyObjections:     "Minhas Oposições",
	MenuManageObjections: "Gerenciar Oposições",
	MenuPatentRequest:    "Solicitar Patente",
	MenuMyPatents:        "Minhas Patentes",
	MenuManagePatents:    "Gerenciar Patentes",
	MenuCostReport:       "Relatório de Custos",
	MenuSettings:         "Configurações",
}

// MenuLabel returns the Portuguese label of item, or item itself.
func MenuLabel(item string) string {
	if l, ok := menuLabels[item]; ok {
		return l
	}
	return item
}

// Package permission turns a user's memberships across the staff, legal and
// consultant role tables into one identity with capabilities and a menu.
package permission

import (
	"strings"

	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
)

// NamePrecedence decides whose name and e-mail are displayed when a user
// belongs to several role tables. The first present, non-empty value wins.
var NamePrecedence = []models.RoleType{models.RoleStaff, models.RoleLegal, models.RoleConsultant}

// CargoFinance is the only non-admin cargo allowed on the cost report.
const CargoFinance = "finance"

// CargoLawyer lets a legal member complete an objection by uploading.
const CargoLawyer = "lawyer"

// DefaultCargo is assumed for users found in no role table.
const DefaultCargo = "consultant"

// Identity aggregates every role membership of one user.
type Identity struct {
	UserID    string                     `json:"user_id"`
	Name      string                     `json:"name"`
	Email     string                     `json:"email"`
	Names     map[models.RoleType]string `json:"names"`
	Emails    map[models.RoleType]string `json:"emails"`
	Cargos    map[models.RoleType]string `json:"cargos"`
	IsAdmin   bool                       `json:"is_admin"`
	RoleTypes []models.RoleType          `json:"role_types"`
	Default   bool                       `json:"default"`
}

// DefaultIdentity is a plain consultant without admin rights.
func DefaultIdentity(userID string) Identity {
	return Identity{
		UserID:    userID,
		Names:     map[models.RoleType]string{},
		Emails:    map[models.RoleType]string{},
		Cargos:    map[models.RoleType]string{models.RoleConsultant: DefaultCargo},
		RoleTypes: []models.RoleType{models.RoleConsultant},
		Default:   true,
	}
}

// Merge builds the identity from up to three optional memberships.
func Merge(staff, legal, consultant *models.Membership) Identity {
	byType := map[models.RoleType]*models.Membership{
		models.RoleStaff:      staff,
		models.RoleLegal:      legal,
		models.RoleConsultant: consultant,
	}

	id := Identity{
		Names:  map[models.RoleType]string{},
		Emails: map[models.RoleType]string{},
		Cargos: map[models.RoleType]string{},
	}
	for _, rt := range NamePrecedence {
		m := byType[rt]
		if m == nil {
			continue
		}
		id.RoleTypes = append(id.RoleTypes, rt)
		id.Cargos[rt] = normalizeCargo(m.Cargo)
		if id.UserID == "" {
			id.UserID = m.UserID
		}
		if n := strings.TrimSpace(m.Name); n != "" {
			id.Names[rt] = n
			if id.Name == "" {
				id.Name = n
			}
		}
		if e := strings.TrimSpace(m.Email); e != "" {
			id.Emails[rt] = e
			if id.Email == "" {
				id.Email = e
			}
		}
		id.IsAdmin = id.IsAdmin || m.IsAdmin
	}

	if len(id.RoleTypes) == 0 {
		return DefaultIdentity("")
	}
	return id
}

// HasRole reports membership in rt.
func (id Identity) HasRole(rt models.RoleType) bool {
	for _, r := range id.RoleTypes {
		if r == rt {
			return true
		}
	}
	return false
}

// HasCargo reports whether any membership carries cargo.
func (id Identity) HasCargo(cargo string) bool {
	cargo = normalizeCargo(cargo)
	for _, c := range id.Cargos {
		if c == cargo {
			return true
		}
	}
	return false
}

// CargoIn returns the cargo held in rt, or "".
func (id Identity) CargoIn(rt models.RoleType) string {
	return id.Cargos[rt]
}

func normalizeCargo(raw string) string {
	c := strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(c, "-", "_")
}

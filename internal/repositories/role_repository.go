package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "github.com/PedidoBuscas/Buscas-sub000/internal/config"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
)

// RoleRepository reads the three role membership tables. Memberships are
// managed outside this service and only read here.
type RoleRepository struct {
	DB *sql.DB
}

func (r RoleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

var roleTables = map[models.RoleType]string{
	models.RoleStaff:      "staff_members",
	models.RoleLegal:      "legal_members",
	models.RoleConsultant: "consultant_members",
}

// find returns (nil, nil) when the user has no row in the table.
func (r RoleRepository) find(ctx context.Context, rt models.RoleType, userID string) (*models.Membership, error) {
	db := r.db()
	if db == nil {
		return nil, upstream(errors.New("db not connected"))
	}
	query := fmt.Sprintf(`SELECT user_id, COALESCE(name,''), COALESCE(email,''), COALESCE(cargo,''), COALESCE(is_admin,0)
		FROM %s WHERE user_id = ? LIMIT 1`, roleTables[rt])

	m := models.Membership{Type: rt}
	err := db.QueryRowContext(ctx, query, userID).Scan(&m.UserID, &m.Name, &m.Email, &m.Cargo, &m.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, upstream(err)
	}
	return &m, nil
}

func (r RoleRepository) Staff(ctx context.Context, userID string) (*models.Membership, error) {
	return r.find(ctx, models.RoleStaff, userID)
}

func (r RoleRepository) Legal(ctx context.Context, userID string) (*models.Membership, error) {
	return r.find(ctx, models.RoleLegal, userID)
}

func (r RoleRepository) Consultant(ctx context.Context, userID string) (*models.Membership, error) {
	return r.find(ctx, models.RoleConsultant, userID)
}

// ConsultantNames maps consultant user ids to display names.
func (r RoleRepository) ConsultantNames(ctx context.Context) (map[string]string, error) {
	db := r.db()
	if db == nil {
		return nil, upstream(errors.New("db not connected"))
	}
	rows, err := db.QueryContext(ctx, `SELECT user_id, COALESCE(name,'') FROM consultant_members`)
	if err != nil {
		return nil, upstream(err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return out, upstream(err)
		}
		out[id] = name
	}
	return out, upstream(rows.Err())
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "github.com/PedidoBuscas/Buscas-sub000/internal/config"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain"
	"github.com/PedidoBuscas/Buscas-sub000/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByEmail matches the address case-insensitively.
func (r UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	db := r.db()
	if db == nil {
		return nil, upstream(errors.New("db not connected"))
	}
	var u models.User
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash FROM users WHERE LOWER(email) = ? LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return nil, upstream(err)
	}
	return &u, nil
}

func (r UserRepository) EmailByID(ctx context.Context, userID string) (string, error) {
	db := r.db()
	if db == nil {
		return "", upstream(errors.New("db not connected"))
	}
	var email string
	err := db.QueryRowContext(ctx, `SELECT COALESCE(email,'') FROM users WHERE id = ? LIMIT 1`, userID).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return "", upstream(err)
	}
	return email, nil
}

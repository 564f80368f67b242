package models

// RoleType names one of the independent role tables.
type RoleType string

const (
	RoleStaff      RoleType = "staff"
	RoleLegal      RoleType = "legal"
	RoleConsultant RoleType = "consultant"
)

// Membership is one row of a role table.
type Membership struct {
	UserID  string   `json:"user_id"`
	Type    RoleType `json:"role_type"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Cargo   string   `json:"cargo"`
	IsAdmin bool     `json:"is_admin"`
}

// User is the login record.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

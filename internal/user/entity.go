// AngelaMos | 2026
// entity.go

package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

const (
	librarianDomain = "@librarian.com"
	adminDomain     = "@admin.com"
)

// ClassifyRole derives the role granted at registration from the email
// domain. It runs once per account; roles are never re-derived.
func ClassifyRole(email string) Role {
	email = strings.ToLower(strings.TrimSpace(email))

	switch {
	case strings.HasSuffix(email, librarianDomain):
		return RoleLibrarian
	case strings.HasSuffix(email, adminDomain):
		return RoleAdmin
	default:
		return RoleStudent
	}
}

// User is immutable after registration.
type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// AngelaMos | 2026
// entity_test.go

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		email string
		want  Role
	}{
		{"head@admin.com", RoleAdmin},
		{"HEAD@ADMIN.COM", RoleAdmin},
		{"  desk@librarian.com ", RoleLibrarian},
		{"alice@school.edu", RoleStudent},
		{"admin.com@gmail.com", RoleStudent},
		{"someone@notadmin.com.au", RoleStudent},
		{"", RoleStudent},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRole(tt.email))
		})
	}
}

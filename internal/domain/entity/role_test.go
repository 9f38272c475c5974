package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleNameByID(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleNameByID(RoleIDAdmin))
	assert.Equal(t, RoleDoctor, RoleNameByID(RoleIDDoctor))
	assert.Equal(t, RolePatient, RoleNameByID(RoleIDPatient))
	assert.Equal(t, RoleNurse, RoleNameByID(RoleIDNurse))
	assert.Equal(t, "", RoleNameByID(99))
}

func TestRoleIDByName(t *testing.T) {
	assert.Equal(t, RoleIDAdmin, RoleIDByName(RoleAdmin))
	assert.Equal(t, RoleIDNurse, RoleIDByName(RoleNurse))
	assert.Equal(t, 0, RoleIDByName("receptionist"))
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name         string
		appRole      string
		suppliedRole string
		want         string
	}{
		{"app role wins", RoleDoctor, RoleNurse, RoleDoctor},
		{"supplied role used when app role empty", "", RoleNurse, RoleNurse},
		{"supplied role used when app role unknown", "superuser", RoleDoctor, RoleDoctor},
		{"defaults to patient", "", "", RolePatient},
		{"unknown supplied role defaults to patient", "", "superuser", RolePatient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRole(tt.appRole, tt.suppliedRole))
		})
	}
}

package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin   = 1
	RoleIDDoctor  = 2
	RoleIDPatient = 3
	RoleIDNurse   = 4
)

// Role name constants
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
	RoleNurse   = "nurse"
)

// RoleNameByID maps a role id to its canonical name, empty when unknown.
func RoleNameByID(id int) string {
	switch id {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDDoctor:
		return RoleDoctor
	case RoleIDPatient:
		return RolePatient
	case RoleIDNurse:
		return RoleNurse
	}
	return ""
}

// RoleIDByName maps a role name to its id, zero when unknown.
func RoleIDByName(name string) int {
	switch name {
	case RoleAdmin:
		return RoleIDAdmin
	case RoleDoctor:
		return RoleIDDoctor
	case RolePatient:
		return RoleIDPatient
	case RoleNurse:
		return RoleIDNurse
	}
	return 0
}

// ResolveRole derives the effective role of an authenticated user.
// Precedence: application-assigned role, then the role supplied at
// registration, then "patient".
func ResolveRole(appRole, suppliedRole string) string {
	if RoleIDByName(appRole) != 0 {
		return appRole
	}
	if RoleIDByName(suppliedRole) != 0 {
		return suppliedRole
	}
	return RolePatient
}

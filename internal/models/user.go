package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleSuperAdmin   Role = "SuperAdmin"
	RoleAdmin        Role = "Admin"
	RoleTherapist    Role = "Therapist"
	RoleReceptionist Role = "Receptionist"
)

var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleTherapist, RoleReceptionist}

// ParseRole accepts only the four known roles.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ActionFlags lists what a user may do on one page. Absent flags are false.
type ActionFlags struct {
	View   bool `bson:"view,omitempty" json:"view,omitempty"`
	Create bool `bson:"create,omitempty" json:"create,omitempty"`
	Update bool `bson:"update,omitempty" json:"update,omitempty"`
	Delete bool `bson:"delete,omitempty" json:"delete,omitempty"`
}

// FullAccess grants every action.
var FullAccess = ActionFlags{View: true, Create: true, Update: true, Delete: true}

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func (f ActionFlags) Allows(a Action) bool {
	switch a {
	case ActionView:
		return f.View
	case ActionCreate:
		return f.Create
	case ActionUpdate:
		return f.Update
	case ActionDelete:
		return f.Delete
	}
	return false
}

// Permissions is a per-user override keyed by page-key.
type Permissions map[string]ActionFlags

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	DisplayName  string             `bson:"displayName" json:"displayName"`
	Role         Role               `bson:"role" json:"role"`
	Blocked      bool               `bson:"blocked" json:"blocked"`
	Permissions  Permissions        `bson:"permissions,omitempty" json:"permissions,omitempty"`
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Credential is the identity-provider record backing a User.
type Credential struct {
	ID           primitive.ObjectID `bson:"_id"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
}

package model

import (
	"slices"
	"time"

	"fair/shared/constant"
	"fair/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldFullName  = "full_name"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

const (
	CacheKeyGet    = "user:get"
	CacheKeyGetAll = "user:gets"
	CacheKeyCount  = "user:count"
)

// StaffRoles may manage the floor plan and act on any reservation.
var StaffRoles = []string{constant.RoleSuperAdmin, constant.RoleAdmin}

// User is a login account. Exhibitor accounts are linked to one exhibitor
// profile through exhibitors.user_id.
type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	FullName  *string    `db:"full_name"`
	LastLogin *time.Time `db:"last_login"`
	Active    bool       `db:"active"`
	model.Metadata
}

func (u User) IsStaff() bool {
	return slices.Contains(StaffRoles, u.Role)
}

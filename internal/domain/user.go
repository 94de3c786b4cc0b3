package domain

import (
	"errors"
	"time"
)

var ErrInvalidRole = errors.New("invalid role")

// Role is a totally ordered hierarchy: basic < editor < admin.
type Role string

const (
	RoleBasic  Role = "basic"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

var roleLevels = map[Role]int{
	RoleBasic:  1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleLevels[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r satisfies the required role, i.e.
// r.Level() >= required.Level().
func (r Role) AtLeast(required Role) bool {
	return r.Level() >= required.Level()
}

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	IsActive     bool      `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

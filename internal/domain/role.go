package domain

import "strings"

// Role is the user's role, resolved once at session start from the
// auth token. Capability checks go through boolean methods instead of
// ad hoc metadata inspection.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole нормализует строку роли из токена, неизвестные значения
// трактуются как обычный пользователь
func ParseRole(s string) Role {
	if strings.EqualFold(s, string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// CanManageRooms reports whether the role may modify the room catalog
func (r Role) CanManageRooms() bool {
	return r == RoleAdmin
}

// CanViewAnyReservation reports whether the role may read reservations
// of other users
func (r Role) CanViewAnyReservation() bool {
	return r == RoleAdmin
}

package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleDispatcher UserRole = "DISPATCHER"
	UserRoleDriver     UserRole = "DRIVER"
)

type Principal struct {
	UserID   uuid.UUID
	OrgID    uuid.UUID
	Role     UserRole
	DriverID *uuid.UUID
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsDispatcher() bool {
	return p.Role == UserRoleDispatcher
}

func (p Principal) IsDriver() bool {
	return p.Role == UserRoleDriver
}

// CanPlanTrips reports whether the principal may submit trip plans.
func (p Principal) CanPlanTrips() bool {
	return p.IsAdmin() || p.IsDispatcher() || p.IsDriver()
}

package model

// Role is the tenant role of a caller, resolved upstream.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleSupervisor      Role = "supervisor"
	RoleInternalAuditor Role = "internal_auditor"
	RoleWorker          Role = "worker"
)

// Caller is the opaque identity handed to the engine by the authentication layer.
type Caller struct {
	TenantID string
	UserID   string
	Role     Role
}

// CanWrite reports whether the role may mutate documents.
func (c Caller) CanWrite() bool {
	switch c.Role {
	case RoleAdmin, RoleSupervisor, RoleInternalAuditor:
		return true
	}
	return false
}

// CanRead reports whether the role may read documents.
func (c Caller) CanRead() bool {
	return c.CanWrite() || c.Role == RoleWorker
}

// IsAdmin reports whether the caller administers the tenant.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

package permission

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Module identifies an addressable area of the application.
type Module string

const (
	ModuleDashboard Module = "dashboard"
	ModuleOrders    Module = "orders"
	ModuleCustomers Module = "customers"
	ModuleProducts  Module = "products"
	ModuleSettings  Module = "settings"
)

// Modules is the closed set of addressable modules. Changes made against a
// module outside this set are ignored.
var Modules = []Module{ModuleDashboard, ModuleOrders, ModuleCustomers, ModuleProducts, ModuleSettings}

// Action is a single capability within a module.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionStatus Action = "status"
	ActionPrint  Action = "print"
)

// Actions lists every capability in the six-action scheme.
var Actions = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionStatus, ActionPrint}

// ActionSet is the canonical per-module capability map. A fully granted
// module has every action true; the wildcard shape normalizes to that.
type ActionSet map[Action]bool

// Map holds a role's normalized permissions per module.
type Map map[Module]ActionSet

// Clone returns a deep copy so rule application never mutates a shared map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for mod, set := range m {
		cp := make(ActionSet, len(set))
		for a, v := range set {
			cp[a] = v
		}
		out[mod] = cp
	}
	return out
}

// FullAccess returns an ActionSet with every action granted.
func FullAccess() ActionSet {
	set := make(ActionSet, len(Actions))
	for _, a := range Actions {
		set[a] = true
	}
	return set
}

// Role is a named permission bundle assigned to store members.
type Role struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	Name        string    `json:"name"`
	Permissions Map       `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Context carries the authenticated caller's identity and the normalized
// permissions of their role in the current store. It is built once per
// request by the auth middleware and passed explicitly; there is no ambient
// current-user lookup.
type Context struct {
	UserID        uuid.UUID
	PlatformAdmin bool
	Permissions   Map
}

// UpdateRoleRequest is the payload for renaming a role and replacing its
// permission map. Permissions may arrive in any accepted shape and are
// normalized before storage.
type UpdateRoleRequest struct {
	Name        string          `json:"name"`
	Permissions json.RawMessage `json:"permissions"`
}

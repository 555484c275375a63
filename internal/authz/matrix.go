package authz

import (
	"encoding/json"
)

// Module names a resource area covered by the permission matrix.
type Module string

// Action names an operation within a module.
type Action string

const (
	ModuleResidents    Module = "residents"
	ModuleEmployees    Module = "employees"
	ModuleDeliveries   Module = "deliveries"
	ModuleCommonSpaces Module = "common-spaces"
)

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// PermissionSet maps module -> action -> allowed.
type PermissionSet map[Module]map[Action]bool

// DefaultMatrix returns the canonical permission schema with every
// action denied. This is the single source of truth for which modules
// and actions exist: a module/action pair absent here is never
// enforceable, no matter what a stored override claims.
func DefaultMatrix() PermissionSet {
	actions := func() map[Action]bool {
		return map[Action]bool{
			ActionView:   false,
			ActionCreate: false,
			ActionEdit:   false,
			ActionDelete: false,
		}
	}
	return PermissionSet{
		ModuleResidents:    actions(),
		ModuleEmployees:    actions(),
		ModuleDeliveries:   actions(),
		ModuleCommonSpaces: actions(),
	}
}

// Merge lays a sparse override onto defaults and returns a new set.
// For every module in defaults: absent from the override means the
// defaults are copied unchanged; present means each action takes the
// override's value when given, else the default's. Modules and actions
// unknown to defaults are dropped (the schema is closed). Neither input
// is mutated, the operation is total and idempotent, and partial or
// garbage data degrades to deny rather than failing.
func Merge(defaults, override PermissionSet) PermissionSet {
	merged := make(PermissionSet, len(defaults))
	for module, defActions := range defaults {
		actions := make(map[Action]bool, len(defActions))
		ovActions, hasModule := override[module]
		for action, defValue := range defActions {
			value := defValue
			if hasModule {
				if ovValue, ok := ovActions[action]; ok {
					value = ovValue
				}
			}
			actions[action] = value
		}
		merged[module] = actions
	}
	return merged
}

// ParsePermissionSet decodes a stored JSONB payload into a sparse
// override. Invalid or empty payloads decode to an empty override
// (deny everything once merged), never to an error: stored garbage must
// not take the authorization path down.
func ParsePermissionSet(raw json.RawMessage) PermissionSet {
	if len(raw) == 0 {
		return PermissionSet{}
	}
	var set PermissionSet
	if err := json.Unmarshal(raw, &set); err != nil || set == nil {
		return PermissionSet{}
	}
	return set
}

// EncodePermissionSet serializes a set for JSONB storage.
func EncodePermissionSet(set PermissionSet) (json.RawMessage, error) {
	return json.Marshal(set)
}

package permission

import (
	"encoding/json"
	"fmt"
)

// Stored permission shapes accumulated over the product's history:
//
//  1. wildcard: the module maps to the string "all"
//  2. legacy three-level: {"view":bool,"edit":bool,"manage":bool}
//     (older rows use the Portuguese keys visualizar/editar/gerenciar)
//  3. current six-action: {"read":bool,...,"print":bool}
//
// Normalize converts any of them into the canonical six-action ActionSet at
// the storage boundary so the rest of the code never sees a legacy shape.

type legacySet struct {
	View       *bool `json:"view"`
	Edit       *bool `json:"edit"`
	Manage     *bool `json:"manage"`
	Visualizar *bool `json:"visualizar"`
	Editar     *bool `json:"editar"`
	Gerenciar  *bool `json:"gerenciar"`
}

func (l legacySet) isLegacy() bool {
	return l.View != nil || l.Edit != nil || l.Manage != nil ||
		l.Visualizar != nil || l.Editar != nil || l.Gerenciar != nil
}

func orFlags(a, b *bool) bool {
	return (a != nil && *a) || (b != nil && *b)
}

// Normalize parses a raw permissions document and returns the canonical Map.
// Unknown modules are dropped; unknown shapes are an error.
func Normalize(raw json.RawMessage) (Map, error) {
	if len(raw) == 0 {
		return Map{}, nil
	}
	var byModule map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byModule); err != nil {
		return nil, fmt.Errorf("parse permissions: %w", err)
	}

	out := make(Map, len(byModule))
	for name, rawSet := range byModule {
		module := Module(name)
		if !knownModule(module) {
			continue
		}
		set, err := normalizeSet(rawSet)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", name, err)
		}
		out[module] = set
	}
	return out, nil
}

func normalizeSet(raw json.RawMessage) (ActionSet, error) {
	// Shape 1: wildcard string.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "all" || s == "todas" {
			return FullAccess(), nil
		}
		return nil, fmt.Errorf("unknown wildcard value %q", s)
	}

	// Shape 2: legacy three-level object.
	var legacy legacySet
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("unrecognized action-set shape: %w", err)
	}
	if legacy.isLegacy() {
		set := ActionSet{}
		if orFlags(legacy.View, legacy.Visualizar) {
			set[ActionRead] = true
		}
		if orFlags(legacy.Edit, legacy.Editar) {
			set[ActionCreate] = true
			set[ActionUpdate] = true
		}
		if orFlags(legacy.Manage, legacy.Gerenciar) {
			set[ActionDelete] = true
		}
		return closure(set), nil
	}

	// Shape 3: current six-action object.
	var actions map[Action]bool
	if err := json.Unmarshal(raw, &actions); err != nil {
		return nil, fmt.Errorf("unrecognized action-set shape: %w", err)
	}
	set := ActionSet{}
	for _, a := range Actions {
		if actions[a] {
			set[a] = true
		}
	}
	return closure(set), nil
}

// closure applies the implication chain so a stored set is always internally
// consistent: delete ⇒ update ⇒ create ⇒ read, status ⇒ read, print ⇒ read.
func closure(set ActionSet) ActionSet {
	out := make(ActionSet, len(Actions))
	for a, v := range set {
		out[a] = v
	}
	if out[ActionDelete] {
		out[ActionUpdate] = true
	}
	if out[ActionUpdate] {
		out[ActionCreate] = true
	}
	if out[ActionCreate] {
		out[ActionRead] = true
	}
	if out[ActionStatus] || out[ActionPrint] {
		out[ActionRead] = true
	}
	return out
}

func knownModule(m Module) bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}

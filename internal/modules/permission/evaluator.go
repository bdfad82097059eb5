package permission

// Has reports whether the given permission map grants an action on a module.
// It is a pure lookup with no I/O, safe to call on every request:
//
//   - an absent module grants nothing
//   - read is satisfied by read, update or delete (higher capabilities were
//     historically stored without the lower flags)
//   - update is satisfied by update or delete
//   - every other action requires its exact flag
func Has(m Map, module Module, action Action) bool {
	set, ok := m[module]
	if !ok {
		return false
	}
	switch action {
	case ActionRead:
		return set[ActionRead] || set[ActionUpdate] || set[ActionDelete]
	case ActionUpdate:
		return set[ActionUpdate] || set[ActionDelete]
	default:
		return set[action]
	}
}

// Has evaluates an action against the caller's role, short-circuiting for
// platform administrators.
func (c Context) Has(module Module, action Action) bool {
	if c.PlatformAdmin {
		return true
	}
	return Has(c.Permissions, module, action)
}

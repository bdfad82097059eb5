package permission

// Apply records a single checkbox toggle in the role editor and cascades its
// implications in one direction only:
//
//	granting  delete → update, create, read
//	granting  update → create, read
//	granting  create → read
//	granting  status|print → read
//	revoking  read   → create, update, delete, status, print
//	revoking  create → update, delete
//	revoking  update → delete
//
// The input map is never mutated; a module outside the closed set is a no-op.
func Apply(m Map, module Module, action Action, value bool) Map {
	if !knownModule(module) {
		return m
	}
	out := m.Clone()
	set := out[module]
	if set == nil {
		set = ActionSet{}
		out[module] = set
	}
	set[action] = value

	if value {
		switch action {
		case ActionDelete:
			set[ActionUpdate] = true
			fallthrough
		case ActionUpdate:
			set[ActionCreate] = true
			fallthrough
		case ActionCreate:
			set[ActionRead] = true
		case ActionStatus, ActionPrint:
			set[ActionRead] = true
		}
		return out
	}

	switch action {
	case ActionRead:
		set[ActionCreate] = false
		set[ActionUpdate] = false
		set[ActionDelete] = false
		set[ActionStatus] = false
		set[ActionPrint] = false
	case ActionCreate:
		set[ActionUpdate] = false
		fallthrough
	case ActionUpdate:
		set[ActionDelete] = false
	}
	return out
}

// Locked reports whether a checkbox must be disabled in the editor because a
// higher-privilege action still holds it true. Unchecking the higher action
// first is the only way to release it.
func Locked(set ActionSet, action Action) bool {
	switch action {
	case ActionRead:
		return set[ActionCreate] || set[ActionUpdate] || set[ActionDelete]
	case ActionCreate:
		return set[ActionUpdate] || set[ActionDelete]
	case ActionUpdate:
		return set[ActionDelete]
	default:
		return false
	}
}

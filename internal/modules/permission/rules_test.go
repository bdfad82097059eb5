package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_GrantCascades(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   ActionSet
	}{
		{
			"delete grants the whole chain",
			ActionDelete,
			ActionSet{ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
		},
		{
			"update grants create and read",
			ActionUpdate,
			ActionSet{ActionRead: true, ActionCreate: true, ActionUpdate: true},
		},
		{
			"create grants read",
			ActionCreate,
			ActionSet{ActionRead: true, ActionCreate: true},
		},
		{
			"status grants read",
			ActionStatus,
			ActionSet{ActionRead: true, ActionStatus: true},
		},
		{
			"print grants read",
			ActionPrint,
			ActionSet{ActionRead: true, ActionPrint: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(Map{}, ModuleOrders, tt.action, true)
			assert.Equal(t, tt.want, got[ModuleOrders])
		})
	}
}

func TestApply_RevokeCascades(t *testing.T) {
	full := Map{ModuleOrders: FullAccess()}

	t.Run("revoking read clears everything", func(t *testing.T) {
		got := Apply(full, ModuleOrders, ActionRead, false)
		for _, action := range Actions {
			assert.False(t, got[ModuleOrders][action], "action %s", action)
		}
	})

	t.Run("revoking create clears update and delete", func(t *testing.T) {
		got := Apply(full, ModuleOrders, ActionCreate, false)
		set := got[ModuleOrders]
		assert.False(t, set[ActionCreate])
		assert.False(t, set[ActionUpdate])
		assert.False(t, set[ActionDelete])
		assert.True(t, set[ActionRead])
		assert.True(t, set[ActionStatus])
		assert.True(t, set[ActionPrint])
	})

	t.Run("revoking update clears delete only", func(t *testing.T) {
		got := Apply(full, ModuleOrders, ActionUpdate, false)
		set := got[ModuleOrders]
		assert.False(t, set[ActionUpdate])
		assert.False(t, set[ActionDelete])
		assert.True(t, set[ActionCreate])
		assert.True(t, set[ActionRead])
	})
}

func TestApply_Idempotent(t *testing.T) {
	once := Apply(Map{}, ModuleOrders, ActionDelete, true)
	twice := Apply(once, ModuleOrders, ActionDelete, true)

	assert.Equal(t, once, twice)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	original := Map{ModuleOrders: {ActionRead: true}}

	_ = Apply(original, ModuleOrders, ActionDelete, true)

	assert.Equal(t, Map{ModuleOrders: {ActionRead: true}}, original)
}

func TestApply_UnknownModuleIgnored(t *testing.T) {
	m := Map{ModuleOrders: {ActionRead: true}}

	got := Apply(m, Module("reports"), ActionDelete, true)

	assert.Equal(t, m, got)
}

// Any sequence of toggles must leave the invariant chain intact: whenever
// delete holds, so do update, create and read.
func TestApply_ChainInvariantHoldsAfterSequences(t *testing.T) {
	sequences := [][]struct {
		action Action
		value  bool
	}{
		{{ActionDelete, true}},
		{{ActionDelete, true}, {ActionStatus, true}, {ActionUpdate, false}},
		{{ActionCreate, true}, {ActionDelete, true}, {ActionDelete, false}, {ActionDelete, true}},
		{{ActionPrint, true}, {ActionRead, false}, {ActionDelete, true}},
	}

	for _, seq := range sequences {
		m := Map{}
		for _, step := range seq {
			m = Apply(m, ModuleOrders, step.action, step.value)
		}
		set := m[ModuleOrders]
		require.NotNil(t, set)
		if set[ActionDelete] {
			assert.True(t, set[ActionUpdate] && set[ActionCreate] && set[ActionRead])
		}
		if set[ActionUpdate] {
			assert.True(t, set[ActionCreate] && set[ActionRead])
		}
		if set[ActionCreate] || set[ActionStatus] || set[ActionPrint] {
			assert.True(t, set[ActionRead])
		}
	}
}

func TestLocked(t *testing.T) {
	set := ActionSet{ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true}

	assert.True(t, Locked(set, ActionRead))
	assert.True(t, Locked(set, ActionCreate))
	assert.True(t, Locked(set, ActionUpdate))
	assert.False(t, Locked(set, ActionDelete))
	assert.False(t, Locked(set, ActionStatus))

	readOnly := ActionSet{ActionRead: true}
	assert.False(t, Locked(readOnly, ActionRead))
}

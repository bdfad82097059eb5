package permission

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Wildcard(t *testing.T) {
	m, err := Normalize(json.RawMessage(`{"orders":"all"}`))
	require.NoError(t, err)

	assert.Equal(t, FullAccess(), m[ModuleOrders])
}

func TestNormalize_SixActionClosure(t *testing.T) {
	m, err := Normalize(json.RawMessage(`{"orders":{"delete":true,"print":true}}`))
	require.NoError(t, err)

	set := m[ModuleOrders]
	assert.True(t, set[ActionRead])
	assert.True(t, set[ActionCreate])
	assert.True(t, set[ActionUpdate])
	assert.True(t, set[ActionDelete])
	assert.True(t, set[ActionPrint])
	assert.False(t, set[ActionStatus])
}

func TestNormalize_LegacyShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want ActionSet
	}{
		{
			"view maps to read",
			`{"customers":{"view":true}}`,
			ActionSet{ActionRead: true},
		},
		{
			"edit maps to create+update+read",
			`{"customers":{"edit":true}}`,
			ActionSet{ActionRead: true, ActionCreate: true, ActionUpdate: true},
		},
		{
			"manage maps to the full crud chain",
			`{"customers":{"manage":true}}`,
			ActionSet{ActionRead: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
		},
		{
			"portuguese keys accepted",
			`{"customers":{"visualizar":true,"editar":true,"gerenciar":false}}`,
			ActionSet{ActionRead: true, ActionCreate: true, ActionUpdate: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Normalize(json.RawMessage(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, m[ModuleCustomers])
		})
	}
}

func TestNormalize_UnknownModuleDropped(t *testing.T) {
	m, err := Normalize(json.RawMessage(`{"reports":"all","orders":{"read":true}}`))
	require.NoError(t, err)

	assert.NotContains(t, m, Module("reports"))
	assert.Contains(t, m, ModuleOrders)
}

func TestNormalize_Empty(t *testing.T) {
	m, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestNormalize_UnknownWildcardRejected(t *testing.T) {
	_, err := Normalize(json.RawMessage(`{"orders":"some"}`))
	assert.Error(t, err)
}

// Legacy and six-action documents describing the same logical grant must
// answer every permission question identically once normalized.
func TestNormalize_LegacyAndCurrentAgree(t *testing.T) {
	pairs := []struct {
		name    string
		legacy  string
		current string
	}{
		{
			"viewer",
			`{"orders":{"view":true}}`,
			`{"orders":{"read":true}}`,
		},
		{
			"editor",
			`{"orders":{"view":true,"edit":true}}`,
			`{"orders":{"create":true,"update":true}}`,
		},
		{
			"manager",
			`{"orders":{"view":true,"edit":true,"manage":true}}`,
			`{"orders":{"delete":true}}`,
		},
	}
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			fromLegacy, err := Normalize(json.RawMessage(tt.legacy))
			require.NoError(t, err)
			fromCurrent, err := Normalize(json.RawMessage(tt.current))
			require.NoError(t, err)

			for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
				assert.Equal(t,
					Has(fromLegacy, ModuleOrders, action),
					Has(fromCurrent, ModuleOrders, action),
					"action %s", action)
			}
		})
	}
}

// Saving a normalized map and parsing it back must reproduce an equivalent
// map, regardless of the shape it was first loaded from.
func TestNormalize_RoundTrip(t *testing.T) {
	first, err := Normalize(json.RawMessage(`{"orders":{"manage":true},"settings":"all"}`))
	require.NoError(t, err)

	stored, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := Normalize(stored)
	require.NoError(t, err)

	for _, module := range Modules {
		for _, action := range Actions {
			assert.Equal(t, Has(first, module, action), Has(second, module, action),
				"module %s action %s", module, action)
		}
	}
}

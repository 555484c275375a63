package authz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatrixDeniesEverything(t *testing.T) {
	m := DefaultMatrix()

	require.Len(t, m, 4)
	for module, actions := range m {
		require.Len(t, actions, 4, "module %s", module)
		for action, allowed := range actions {
			assert.False(t, allowed, "%s.%s must default to deny", module, action)
		}
	}
}

func TestMergeAppliesSparseOverride(t *testing.T) {
	override := PermissionSet{
		ModuleResidents: {ActionView: true, ActionEdit: true},
	}

	merged := Merge(DefaultMatrix(), override)

	assert.True(t, merged[ModuleResidents][ActionView])
	assert.True(t, merged[ModuleResidents][ActionEdit])
	assert.False(t, merged[ModuleResidents][ActionCreate])
	assert.False(t, merged[ModuleResidents][ActionDelete])
	// untouched modules keep every default
	for _, action := range []Action{ActionView, ActionCreate, ActionEdit, ActionDelete} {
		assert.False(t, merged[ModuleDeliveries][action])
	}
}

func TestMergeSchemaIsClosed(t *testing.T) {
	override := PermissionSet{
		"reservations":  {ActionView: true},
		ModuleResidents: {"approve": true, ActionView: true},
	}

	merged := Merge(DefaultMatrix(), override)

	_, hasUnknownModule := merged["reservations"]
	assert.False(t, hasUnknownModule, "unknown module must be dropped")
	_, hasUnknownAction := merged[ModuleResidents]["approve"]
	assert.False(t, hasUnknownAction, "unknown action must be dropped")
	assert.True(t, merged[ModuleResidents][ActionView])
}

func TestMergeIsIdempotent(t *testing.T) {
	override := PermissionSet{
		ModuleDeliveries: {ActionCreate: true},
	}

	once := Merge(DefaultMatrix(), override)
	twice := Merge(once, override)

	assert.Equal(t, once, twice)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	defaults := DefaultMatrix()
	override := PermissionSet{
		ModuleEmployees: {ActionDelete: true},
	}

	_ = Merge(defaults, override)

	assert.False(t, defaults[ModuleEmployees][ActionDelete], "defaults must stay untouched")
	assert.Len(t, override, 1, "override must stay untouched")
	assert.Len(t, override[ModuleEmployees], 1)
}

func TestMergeWithEmptyOverrideEqualsDefaults(t *testing.T) {
	assert.Equal(t, DefaultMatrix(), Merge(DefaultMatrix(), PermissionSet{}))
	assert.Equal(t, DefaultMatrix(), Merge(DefaultMatrix(), nil))
}

func TestParsePermissionSetToleratesGarbage(t *testing.T) {
	cases := []json.RawMessage{
		nil,
		json.RawMessage(``),
		json.RawMessage(`null`),
		json.RawMessage(`"not an object"`),
		json.RawMessage(`{broken`),
		json.RawMessage(`[1, 2, 3]`),
	}
	for _, raw := range cases {
		set := ParsePermissionSet(raw)
		require.NotNil(t, set)
		assert.Equal(t, DefaultMatrix(), Merge(DefaultMatrix(), set),
			"garbage %q must degrade to deny-everything", string(raw))
	}
}

func TestPermissionSetRoundTrip(t *testing.T) {
	original := PermissionSet{
		ModuleCommonSpaces: {ActionView: true, ActionCreate: false},
	}

	raw, err := EncodePermissionSet(original)
	require.NoError(t, err)

	decoded := ParsePermissionSet(raw)
	assert.Equal(t, original, decoded)
}

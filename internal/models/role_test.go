package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivileges_ValueAndScan(t *testing.T) {
	p := Privileges{"View reports", "User management"}

	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, `["View reports","User management"]`, v)

	var scanned Privileges
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, p, scanned)

	require.NoError(t, scanned.Scan([]byte(`["a"]`)))
	assert.Equal(t, Privileges{"a"}, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestPrivileges_NilValueIsEmptyArray(t *testing.T) {
	var p Privileges
	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestRole_HasPrivilege(t *testing.T) {
	role := Role{Name: RoleAdministrator, Privileges: Privileges{"Full system access"}}
	assert.True(t, role.HasPrivilege("Full system access"))
	assert.False(t, role.HasPrivilege("View kitchen reports"))
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAndCountryValid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleMember.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())

	assert.True(t, CountryIndia.Valid())
	assert.False(t, Country("Wakanda").Valid())
}

func TestPrincipalIs(t *testing.T) {
	t.Parallel()

	var anon *Principal
	assert.False(t, anon.Is(RoleAdmin))
	assert.True(t, (&Principal{Role: RoleManager}).Is(RoleManager))
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "nick@shield.com", NormalizeEmail("  Nick@SHIELD.com "))
}

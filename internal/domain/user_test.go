package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	role, ok = ParseRole("votante")
	assert.True(t, ok)
	assert.Equal(t, RoleVoter, role)

	for _, s := range []string{"", "Admin", "superadmin", "voter"} {
		role, ok = ParseRole(s)
		assert.False(t, ok, s)
		assert.Empty(t, role, s)
		assert.False(t, Role(s).Valid(), s)
	}
}

func TestUser_Principal(t *testing.T) {
	u := User{ID: 4, NombreCompleto: "Ana López", Role: RoleVoter}

	p := u.Principal()

	assert.Equal(t, Principal{ID: 4, Role: RoleVoter, Name: "Ana López"}, p)
	assert.True(t, p.IsVoter())
	assert.False(t, p.IsAdmin())
}

func TestSameDate(t *testing.T) {
	a := time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(a, time.Date(1995, 6, 15, 23, 59, 0, 0, time.UTC)))
	assert.False(t, SameDate(a, time.Date(1995, 6, 16, 0, 0, 0, 0, time.UTC)))
	assert.False(t, SameDate(a, time.Time{}))
}

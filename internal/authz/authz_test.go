package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"ADMIN", "ALCALDE", "OPERADOR"} {
		r, ok := ParseRole(s)
		require.True(t, ok)
		require.Equal(t, Role(s), r)
	}
	_, ok := ParseRole("editor")
	require.False(t, ok)
	_, ok = ParseRole("")
	require.False(t, ok)
}

func TestDecideAdmin(t *testing.T) {
	admin := Actor{Email: "admin@cerrolargo.gub.uy", Role: RoleAdmin, Scope: AllZones()}
	for _, zone := range []string{"MELO", "ARÉVALO", "zona inexistente"} {
		d := Decide(admin, zone)
		require.True(t, d.Allowed, zone)
		require.Empty(t, d.Reason)
	}
}

func TestDecideAlcaldeOwnZone(t *testing.T) {
	alcalde := Actor{Role: RoleAlcalde, Scope: RestrictedTo("ARÉVALO")}

	// Accent and case drift across data sources must not matter.
	for _, spelling := range []string{"ARÉVALO", "AREVALO", "arévalo", " Arevalo "} {
		require.True(t, Decide(alcalde, spelling).Allowed, spelling)
	}

	d := Decide(alcalde, "MELO")
	require.False(t, d.Allowed)
	require.Equal(t, ReasonZoneMismatch, d.Reason)
}

func TestDecideOperador(t *testing.T) {
	op := Actor{Role: RoleOperador, Scope: RestrictedTo("RÍO BRANCO")}
	require.True(t, Decide(op, "rio branco").Allowed)
	require.False(t, Decide(op, "MELO").Allowed)
}

func TestDecideMissingAssignment(t *testing.T) {
	d := Decide(Actor{Role: RoleAlcalde}, "MELO")
	require.False(t, d.Allowed)
	require.Equal(t, ReasonNoAssignment, d.Reason)

	d = Decide(Actor{Role: RoleAlcalde, Scope: ScopeFor(RoleAlcalde, "")}, "MELO")
	require.False(t, d.Allowed)
	require.Equal(t, ReasonNoAssignment, d.Reason)
}

func TestDecideUnknownRole(t *testing.T) {
	d := Decide(Actor{Role: Role("editor"), Scope: AllZones()}, "MELO")
	require.False(t, d.Allowed)
	require.Equal(t, ReasonUnknownRole, d.Reason)
}

func TestScopeFor(t *testing.T) {
	require.True(t, ScopeFor(RoleAdmin, "").All())
	s := ScopeFor(RoleAlcalde, "ISIDORO NOBLÍA")
	require.False(t, s.All())
	require.Equal(t, "isidoro noblia", s.ZoneKey())
	require.Empty(t, ScopeFor(RoleOperador, "").ZoneKey())
}

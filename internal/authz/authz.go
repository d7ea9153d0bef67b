// Package authz holds the zone-write authorization policy, independent
// of HTTP and storage so it can be tested on its own.
package authz

import "github.com/cerrolargo/camineria-backend/internal/zones"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleAlcalde  Role = "ALCALDE"
	RoleOperador Role = "OPERADOR"
)

// ParseRole maps a claim or request value onto the closed set. Unknown
// values come back as ok=false and are denied everywhere.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleAlcalde, RoleOperador:
		return Role(s), true
	}
	return "", false
}

// ZoneScope is the set of zones an actor may write: either all of them
// or exactly one. The zero value permits nothing.
type ZoneScope struct {
	all     bool
	zoneKey string
}

func AllZones() ZoneScope {
	return ZoneScope{all: true}
}

// RestrictedTo scopes an actor to a single zone, given in any spelling.
func RestrictedTo(zoneName string) ZoneScope {
	return ZoneScope{zoneKey: zones.Canonical(zoneName)}
}

func (s ZoneScope) All() bool { return s.all }

// ZoneKey returns the single permitted canonical key, empty for AllZones
// or an empty scope.
func (s ZoneScope) ZoneKey() string { return s.zoneKey }

func (s ZoneScope) permits(zoneKey string) bool {
	if s.all {
		return true
	}
	return s.zoneKey != "" && s.zoneKey == zoneKey
}

// Actor is an authenticated identity as seen by the policy.
type Actor struct {
	Email string
	Role  Role
	Scope ZoneScope
}

// ScopeFor builds the zone scope the given role implies. ADMIN covers
// every zone; ALCALDE and OPERADOR are restricted to their assignment.
func ScopeFor(role Role, assignedZone string) ZoneScope {
	if role == RoleAdmin {
		return AllZones()
	}
	if assignedZone == "" {
		return ZoneScope{}
	}
	return RestrictedTo(assignedZone)
}

// Denial reasons, machine-readable for bulk-update reporting.
const (
	ReasonUnknownRole  = "unknown_role"
	ReasonNoAssignment = "no_zone_assignment"
	ReasonZoneMismatch = "zone_mismatch"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r string) Decision { return Decision{Reason: r} }

// Decide reports whether the actor may write the zone named by zoneName.
// The name is canonicalized before comparison.
func Decide(actor Actor, zoneName string) Decision {
	if _, ok := ParseRole(string(actor.Role)); !ok {
		return deny(ReasonUnknownRole)
	}
	if actor.Scope.All() {
		return allow()
	}
	if actor.Scope.ZoneKey() == "" {
		return deny(ReasonNoAssignment)
	}
	if !actor.Scope.permits(zones.Canonical(zoneName)) {
		return deny(ReasonZoneMismatch)
	}
	return allow()
}

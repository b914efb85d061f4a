// Package taxonomy defines the fixed set of railway departments complaints
// are routed to, plus the user roles that control who sees which queue.
// Free-form strings from user profiles and the AI classifier are only
// trusted after passing through the normalization functions here.
package taxonomy

import "strings"

// Department is one validated routing code from the fixed set.
type Department string

const (
	Ticketing    Department = "TICKETING"
	Catering     Department = "CATERING"
	Cleanliness  Department = "CLEANLINESS"
	TrainDelay   Department = "TRAIN_DELAY"
	LostAndFound Department = "LOST_AND_FOUND"
	Maintenance  Department = "MAINTENANCE"
	Security     Department = "SECURITY"
	Other        Department = "OTHER"
)

// Departments lists every valid code. Other is the universal fallback.
var Departments = []Department{
	Ticketing,
	Catering,
	Cleanliness,
	TrainDelay,
	LostAndFound,
	Maintenance,
	Security,
	Other,
}

var departmentSet = func() map[Department]struct{} {
	s := make(map[Department]struct{}, len(Departments))
	for _, d := range Departments {
		s[d] = struct{}{}
	}
	return s
}()

// IsValid reports whether d is a member of the fixed department set.
func IsValid(d Department) bool {
	_, ok := departmentSet[d]
	return ok
}

// NormalizeDepartment trims and uppercases a free-form department string and
// coerces anything outside the fixed set to Other. Normalizing an already
// valid code returns the same code.
func NormalizeDepartment(raw string) Department {
	d := Department(strings.ToUpper(strings.TrimSpace(raw)))
	if !IsValid(d) {
		return Other
	}
	return d
}

// Role is a normalized caller role. Anything that is not SUPER_ADMIN is
// treated as department-scoped for retrieval purposes.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleUser       Role = "USER"
)

// NormalizeRole trims and uppercases a free-form role string. Unknown roles
// fall back to RoleStaff so they never widen visibility by accident.
func NormalizeRole(raw string) Role {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff, RoleUser:
		return r
	}
	return RoleStaff
}

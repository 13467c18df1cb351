package domain

import "strings"

// Role identifies an editorial permission tier. Tiers are strictly ordered;
// a transition's minimum role is satisfied by any role at or above it.
type Role string

const (
	// RoleJournalist authors items and submits their own drafts.
	RoleJournalist Role = "journalist"
	// RoleReviewer performs the first review tier.
	RoleReviewer Role = "reviewer"
	// RoleApprover performs the final review tier and publishes.
	RoleApprover Role = "approver"
	// RoleAdmin outranks every editorial tier.
	RoleAdmin Role = "admin"
)

var roleRank = map[Role]int{
	RoleJournalist: 1,
	RoleReviewer:   2,
	RoleApprover:   3,
	RoleAdmin:      4,
}

// Rank returns the tier position of the role, or 0 when unknown.
func (r Role) Rank() int {
	return roleRank[r]
}

// Known reports whether the role belongs to the editorial vocabulary.
func (r Role) Known() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether the role meets or exceeds the supplied minimum.
// Unknown roles never satisfy any minimum.
func (r Role) AtLeast(min Role) bool {
	rank := r.Rank()
	return rank > 0 && rank >= min.Rank()
}

// NormalizeRole coerces arbitrary role strings into the known vocabulary.
func NormalizeRole(input string) Role {
	return Role(strings.ToLower(strings.TrimSpace(input)))
}

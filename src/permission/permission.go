// Package permission decides whether a user may perform a chat action.
// It is a pure lookup: role names from the identity provider resolve to
// an internal tier, and a static table maps tiers to action sets. It is
// a UI affordance, not a security boundary: the server re-validates
// every mutating action.
package permission

// Role is a chat permission tier. Tiers are strictly ordered; a user's
// effective tier is the highest one any of their role names maps to.
type Role int

const (
	RoleGuest Role = iota
	RoleMember
	RoleModerator
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleMember:
		return "member"
	default:
		return "guest"
	}
}

// Action is a bit in an ActionSet.
type Action uint8

const (
	ActionSend Action = 1 << iota
	ActionEditOwn
	ActionEditAny
	ActionDeleteOwn
	ActionDeleteAny
	ActionPin
)

// ActionSet is a bitmap of granted actions.
type ActionSet uint8

// Has reports whether the set grants the action.
func (s ActionSet) Has(a Action) bool {
	return s&ActionSet(a) == ActionSet(a)
}

// rolePermissions is the capability table. Grants are table-driven, not
// derived from the tier ordering: Owner and Admin carry identical full
// grants today, and the withheld actions per tier are explicit.
var rolePermissions = map[Role]ActionSet{
	RoleOwner: ActionSet(ActionSend | ActionEditOwn | ActionEditAny |
		ActionDeleteOwn | ActionDeleteAny | ActionPin),
	RoleAdmin: ActionSet(ActionSend | ActionEditOwn | ActionEditAny |
		ActionDeleteOwn | ActionDeleteAny | ActionPin),
	RoleModerator: ActionSet(ActionSend | ActionEditOwn | ActionDeleteOwn |
		ActionDeleteAny),
	RoleMember: ActionSet(ActionSend | ActionEditOwn | ActionDeleteOwn),
	RoleGuest:  ActionSet(ActionSend),
}

// roleNames translates role-name strings surfaced by the identity
// provider, including the legacy spellings still present on older
// accounts. Unmapped names are ignored.
var roleNames = map[string]Role{
	"Owner":     RoleOwner,
	"owner":     RoleOwner,
	"Admin":     RoleAdmin,
	"admin":     RoleAdmin,
	"staff":     RoleAdmin,
	"Staff":     RoleAdmin,
	"Moderator": RoleModerator,
	"moderator": RoleModerator,
	"Member":    RoleMember,
	"member":    RoleMember,
}

// hierarchy is the tier order used by ResolveHighestRole, highest first.
var hierarchy = [...]Role{RoleOwner, RoleAdmin, RoleModerator, RoleMember, RoleGuest}

// ResolveHighestRole returns the highest tier that any of the assigned
// role names maps to, or RoleGuest when none match or the input is empty.
func ResolveHighestRole(assigned []string) Role {
	if len(assigned) == 0 {
		return RoleGuest
	}
	held := make(map[Role]bool, len(assigned))
	for _, name := range assigned {
		if role, ok := roleNames[name]; ok {
			held[role] = true
		}
	}
	for _, role := range hierarchy {
		if held[role] {
			return role
		}
	}
	return RoleGuest
}

// Allowed reports whether a user holding the given role names may perform
// the action. It must be re-evaluated on every permission-sensitive
// action: roles can change mid-session on permission refresh, so the
// result is never cached on a message or user object.
func Allowed(assigned []string, action Action) bool {
	grants, ok := rolePermissions[ResolveHighestRole(assigned)]
	if !ok {
		return false
	}
	return grants.Has(action)
}

package domain

// Action is an operation subject to the access policy.
type Action uint8

const (
	ActionListAll Action = iota + 1
	ActionListOwn
	ActionCreate
	ActionReadOne
	ActionUpdateFields
	ActionUpdateStatus
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionListAll:
		return "list-all"
	case ActionListOwn:
		return "list-own"
	case ActionCreate:
		return "create"
	case ActionReadOne:
		return "read-one"
	case ActionUpdateFields:
		return "update-fields"
	case ActionUpdateStatus:
		return "update-status"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// CanPerform decides whether actor may perform action on a resource owned by ownerID.
// For ActionListOwn, ownerID is the account the listing is scoped to.
//
// Delete is narrower than the other record actions: only the owner may delete,
// an Admin who did not create the referral is refused.
func CanPerform(actor Principal, ownerID string, action Action) bool {
	if !actor.Role.Valid() || actor.AccountID == "" {
		return false
	}
	isAdmin := actor.Role == RoleAdmin
	isOwner := ownerID != "" && actor.AccountID == ownerID

	switch action {
	case ActionListAll:
		return isAdmin
	case ActionListOwn:
		return isOwner
	case ActionCreate:
		return true
	case ActionReadOne, ActionUpdateFields:
		return isAdmin || isOwner
	case ActionUpdateStatus:
		return isAdmin
	case ActionDelete:
		return isOwner
	default:
		return false
	}
}

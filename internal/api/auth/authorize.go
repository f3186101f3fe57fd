// Package auth holds the authorization engine: a pure decision function
// mapping (actor, action, resource kind, owner) to allow or deny.
package auth

import "reviewhub/internal/api/models"

// Action is the closed set of operations a request can target.
type Action int

const (
	ActionList Action = iota
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionDelete
)

// IsSafe reports whether the action is read-only.
func (a Action) IsSafe() bool {
	return a == ActionList || a == ActionRetrieve
}

// Kind is the closed set of resource kinds the engine decides over.
type Kind int

const (
	KindCategory Kind = iota
	KindGenre
	KindTitle
	KindUser
	KindReview
	KindComment
)

// Authorize decides whether actor may perform action on a resource of the
// given kind. actor is nil for anonymous requests. ownerID is the resource
// author's user ID and only matters for review/comment mutation; pass ""
// when the kind has no owner.
//
// The function is total: any (actor, action, kind, owner) combination
// yields a verdict, never a panic.
//
// The /users/me endpoints are not decided here: self-profile access is a
// route-level concern (any authenticated actor), with the role-field
// soft-ignore applied by the user service.
func Authorize(actor *models.User, action Action, kind Kind, ownerID string) bool {
	switch kind {
	case KindCategory, KindGenre, KindTitle:
		// Taxonomy is world-readable, admin-writable.
		if action.IsSafe() {
			return true
		}
		return actor != nil && actor.IsAdmin()

	case KindUser:
		// User management is admin-only, reads included.
		return actor != nil && actor.IsAdmin()

	case KindReview, KindComment:
		if action.IsSafe() {
			return true
		}
		if actor == nil {
			return false
		}
		if action == ActionCreate {
			return true
		}
		return actor.IsAdmin() || actor.IsModerator() || actor.ID == ownerID

	default:
		return false
	}
}

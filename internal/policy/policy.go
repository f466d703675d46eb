// Package policy holds the leave lifecycle and review rules. Every function
// is a pure predicate over explicit arguments; callers build an Actor from
// the authenticated session and pass it in, nothing is read from ambient
// state.
package policy

import "github.com/google/uuid"

// Role is the closed set of user roles. Adding a role must break every
// switch in this package until the new case is handled.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ParseRole returns the Role for a stored/claimed role string, or false when
// the value is outside the closed set.
func ParseRole(v string) (Role, bool) {
	switch Role(v) {
	case RoleEmployee:
		return RoleEmployee, true
	case RoleManager:
		return RoleManager, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Status is the leave request lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

// transitions is the full state machine: pending is the only non-terminal
// state, approved and rejected admit nothing.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status admits no further transition.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Actor is the authenticated session identity. It is constructed once per
// request from verified token claims.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// LeaveRef carries the leave fields the policy needs.
type LeaveRef struct {
	EmployeeID uuid.UUID
	Status     Status
}

// CommentRef carries the comment fields the policy needs.
type CommentRef struct {
	UserID uuid.UUID
}

// CanReview reports whether the actor may approve or reject the leave.
// Managers and admins review; nobody reviews their own request.
func CanReview(actor Actor, leave LeaveRef) bool {
	if actor.ID == leave.EmployeeID {
		return false
	}
	switch actor.Role {
	case RoleManager, RoleAdmin:
		return true
	case RoleEmployee:
		return false
	default:
		return false
	}
}

// CanViewLeave reports whether the actor may read the leave and its comments.
func CanViewLeave(actor Actor, leave LeaveRef) bool {
	if actor.ID == leave.EmployeeID {
		return true
	}
	switch actor.Role {
	case RoleManager, RoleAdmin:
		return true
	case RoleEmployee:
		return false
	default:
		return false
	}
}

// CanModifyComment reports whether the actor may edit or delete the comment.
// Only the author may; no role elevates this.
func CanModifyComment(actor Actor, comment CommentRef) bool {
	return actor.ID == comment.UserID
}

// CanManageUsers reports whether the actor may run the user lifecycle.
func CanManageUsers(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleEmployee, RoleManager:
		return false
	default:
		return false
	}
}

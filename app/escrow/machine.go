package escrow

import "github.com/google/uuid"

// Action is something a party (or the platform) tries to do to an offer.
type Action string

const (
	ActionAccept         Action = "accept"
	ActionReject         Action = "reject"
	ActionCancel         Action = "cancel"
	ActionOpenPayment    Action = "open_payment"
	ActionConfirmPayment Action = "confirm_payment"
	ActionDispute        Action = "dispute"
	ActionResolveSuccess Action = "resolve_success"
	ActionResolveFailed  Action = "resolve_failed"
	ActionAbandon        Action = "abandon"
)

// Role is who is acting. Buyer and seller are derived from the stored
// offer, never from client input. System covers the gateway webhook and
// the abandonment sweep.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
	RoleSystem Role = "system"
)

// transitions is the full edge set of the offer state machine. Terminal
// statuses have no entry, so every action against them falls through to
// ErrInvalidTransition.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionAccept: StatusAccepted,
		ActionReject: StatusRejected,
		ActionCancel: StatusCancelled,
	},
	StatusAccepted: {
		ActionOpenPayment: StatusInEscrow,
	},
	StatusInEscrow: {
		ActionConfirmPayment: StatusSuccess,
		ActionDispute:        StatusDisputed,
		ActionAbandon:        StatusAbandoned,
	},
	StatusDisputed: {
		ActionResolveSuccess: StatusSuccess,
		ActionResolveFailed:  StatusFailed,
	},
}

var allowedRoles = map[Action]map[Role]bool{
	ActionAccept:         {RoleSeller: true},
	ActionReject:         {RoleSeller: true},
	ActionCancel:         {RoleBuyer: true, RoleSeller: true},
	ActionOpenPayment:    {RoleBuyer: true, RoleSystem: true},
	ActionConfirmPayment: {RoleSystem: true},
	ActionDispute:        {RoleBuyer: true, RoleSeller: true},
	ActionResolveSuccess: {RoleAdmin: true, RoleSystem: true},
	ActionResolveFailed:  {RoleAdmin: true, RoleSystem: true},
	ActionAbandon:        {RoleSystem: true},
}

// Next decides the outcome of applying action to an offer currently in
// current, acted by role. It returns the resulting status and whether the
// store needs to be written. Role is checked before state, so an actor who
// may never perform the action gets ErrForbidden even on a terminal offer.
//
// Accepting an already-accepted offer is an idempotent no-op: the current
// status is returned with changed=false and no error.
func Next(current Status, action Action, role Role) (next Status, changed bool, err error) {
	if !allowedRoles[action][role] {
		return current, false, ErrForbidden
	}
	if action == ActionAccept && current == StatusAccepted {
		return current, false, nil
	}
	next, ok := transitions[current][action]
	if !ok {
		return current, false, ErrInvalidTransition
	}
	return next, true, nil
}

// RoleOf derives the viewer's role on an offer from the stored party ids.
// ok is false when the viewer is neither party.
func RoleOf(buyerID, sellerID, viewerID uuid.UUID) (Role, bool) {
	switch viewerID {
	case buyerID:
		return RoleBuyer, true
	case sellerID:
		return RoleSeller, true
	}
	return "", false
}

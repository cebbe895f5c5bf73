package escrow

import "errors"

// Sentinel errors returned by the engine. Controllers map these to HTTP
// status codes and must never report success when one is returned.
var (
	// ErrForbidden means the actor's role does not permit the action on
	// this offer. The offer is never mutated.
	ErrForbidden = errors.New("action not permitted for this role")

	// ErrInvalidTransition means the action is role-permitted but the
	// offer is not in a state where it applies. Reported distinctly from
	// ErrForbidden so callers can tell "wrong person" from "wrong time".
	ErrInvalidTransition = errors.New("offer state does not allow this action")

	// ErrNotFound means the offer or transaction does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("offer not found")

	// ErrAlreadyOpen means a transaction already exists for the offer.
	ErrAlreadyOpen = errors.New("transaction already opened for this offer")

	// ErrUpstream means the payment gateway could not be reached. The
	// offer state is left unchanged and the caller should retry.
	ErrUpstream = errors.New("payment provider unavailable")
)

package escrow

import "fmt"

// Status is the lifecycle state of an offer. Only the values below are
// representable; anything else is rejected at the parse boundary.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusInEscrow  Status = "in_escrow"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusDisputed  Status = "disputed"
	StatusAbandoned Status = "abandoned"
)

var terminalStatuses = map[Status]bool{
	StatusSuccess:   true,
	StatusFailed:    true,
	StatusRejected:  true,
	StatusCancelled: true,
	StatusAbandoned: true,
}

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusAccepted:  true,
	StatusInEscrow:  true,
	StatusSuccess:   true,
	StatusFailed:    true,
	StatusRejected:  true,
	StatusCancelled: true,
	StatusDisputed:  true,
	StatusAbandoned: true,
}

// ParseStatus converts a wire string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", fmt.Errorf("unknown escrow status %q", s)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool { return terminalStatuses[s] }

package enums

import "fmt"

// PledgeStatus tracks the lifecycle of a donation pledge. Received and
// Cancelled are terminal.
type PledgeStatus string

const (
	PledgeStatusPending   PledgeStatus = "Pending"
	PledgeStatusReceived  PledgeStatus = "Received"
	PledgeStatusCancelled PledgeStatus = "Cancelled"
)

var validPledgeStatuses = []PledgeStatus{
	PledgeStatusPending,
	PledgeStatusReceived,
	PledgeStatusCancelled,
}

// String implements fmt.Stringer.
func (p PledgeStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PledgeStatus.
func (p PledgeStatus) IsValid() bool {
	for _, candidate := range validPledgeStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (p PledgeStatus) IsTerminal() bool {
	return p == PledgeStatusReceived || p == PledgeStatusCancelled
}

// ParsePledgeStatus converts raw input into a PledgeStatus.
func ParsePledgeStatus(value string) (PledgeStatus, error) {
	for _, candidate := range validPledgeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pledge status %q", value)
}

package enums

import "fmt"

// RequestPriority ranks how urgently a wishlist need should be met.
type RequestPriority string

const (
	RequestPriorityLow      RequestPriority = "Low"
	RequestPriorityMedium   RequestPriority = "Medium"
	RequestPriorityHigh     RequestPriority = "High"
	RequestPriorityCritical RequestPriority = "Critical"
)

var validRequestPriorities = []RequestPriority{
	RequestPriorityLow,
	RequestPriorityMedium,
	RequestPriorityHigh,
	RequestPriorityCritical,
}

// String implements fmt.Stringer.
func (r RequestPriority) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RequestPriority.
func (r RequestPriority) IsValid() bool {
	for _, candidate := range validRequestPriorities {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRequestPriority converts raw input into a RequestPriority.
func ParseRequestPriority(value string) (RequestPriority, error) {
	for _, candidate := range validRequestPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request priority %q", value)
}

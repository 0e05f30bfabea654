package enums

import "fmt"

// ItemCondition grades the physical state of an inventory item.
type ItemCondition string

const (
	ItemConditionNew  ItemCondition = "New"
	ItemConditionGood ItemCondition = "Good"
	ItemConditionFair ItemCondition = "Fair"
	ItemConditionPoor ItemCondition = "Poor"
)

var validItemConditions = []ItemCondition{
	ItemConditionNew,
	ItemConditionGood,
	ItemConditionFair,
	ItemConditionPoor,
}

// String implements fmt.Stringer.
func (i ItemCondition) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemCondition.
func (i ItemCondition) IsValid() bool {
	for _, candidate := range validItemConditions {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemCondition converts raw input into an ItemCondition.
func ParseItemCondition(value string) (ItemCondition, error) {
	for _, candidate := range validItemConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item condition %q", value)
}

package enums

import "fmt"

// CartState tracks whether a cart session has been claimed by a signed-in user.
type CartState string

const (
	CartStateAnonymous CartState = "anonymous"
	CartStateClaimed   CartState = "claimed"
)

var validCartStates = []CartState{
	CartStateAnonymous,
	CartStateClaimed,
}

// String implements fmt.Stringer.
func (s CartState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CartState.
func (s CartState) IsValid() bool {
	for _, candidate := range validCartStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCartState converts raw input into a CartState.
func ParseCartState(value string) (CartState, error) {
	for _, candidate := range validCartStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart state %q", value)
}

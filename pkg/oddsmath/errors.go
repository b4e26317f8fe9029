package oddsmath

import "fmt"

// InvalidOddsError reports numeric input the converters cannot accept:
// a zero or out-of-bound American price, a decimal price <= 1.0, or a
// probability outside (0, 1).
type InvalidOddsError struct {
	Field  string
	Reason string
}

func (e *InvalidOddsError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

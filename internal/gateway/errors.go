package gateway

import "fmt"

// ProviderUnavailableError reports a failed upstream odds fetch: a transport
// error, a non-200 status, or an undecodable payload. The aggregator treats
// it as zero events for the failing combination rather than a fatal error.
type ProviderUnavailableError struct {
	Status int
	Body   string
	Cause  error
}

func (e *ProviderUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("odds provider unreachable: %v", e.Cause)
	}
	return fmt.Sprintf("odds provider responded with status %d: %s", e.Status, e.Body)
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Cause
}

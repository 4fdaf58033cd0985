package market

import "fmt"

// ValidationError reports malformed caller input. It is raised before any
// I/O so callers can distinguish a bad request from an empty result.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

package operation

import "fmt"

// ValidationError reports invalid or missing input detected before any
// network call. It is fatal to the invocation it belongs to.
type ValidationError struct {
	Operation string
	Parameter string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("%s: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Operation, e.Parameter, e.Reason)
}

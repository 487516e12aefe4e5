package granite

import "fmt"

// OperationError reports a call answered with an unexpected status.
type OperationError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s returned unexpected status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// TransportError reports a call that never received a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

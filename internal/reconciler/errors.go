package reconciler

import "fmt"

// MissingFieldError is returned when the desired state requires a field that
// was not supplied, e.g. creating a group without a name.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is not set", e.Field)
}

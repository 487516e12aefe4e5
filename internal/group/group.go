// Package group defines the desired and observed group states handled by the reconciler.
package group

import (
	"fmt"

	"github.com/aem-tools/groupctl/internal/stringutils"
)

// State is the target existence of a group.
type State string

const (
	// StatePresent means the group must exist.
	StatePresent State = "present"
	// StateAbsent means the group must not exist.
	StateAbsent State = "absent"
)

// InvalidStateError is returned when a state value is outside present/absent.
type InvalidStateError struct {
	Value string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state %q: must be %q or %q", e.Value, StatePresent, StateAbsent)
}

// ParseState validates a raw state value.
func ParseState(value string) (State, error) {
	switch State(value) {
	case StatePresent, StateAbsent:
		return State(value), nil
	}
	return "", &InvalidStateError{Value: value}
}

// Desired is the declared state of one group.
type Desired struct {
	// ID is the stable authorizable ID of the group.
	ID string
	// DisplayName is the profile name. Optional, but required when the group
	// has to be created.
	DisplayName string
	// MemberOf lists the parent groups this group declares membership of.
	// Compared as a case-insensitive set.
	MemberOf []string
	// State is the target existence.
	State State
}

// Observed is the state of a group as reported by the remote service.
type Observed struct {
	DisplayName string
	MemberOf    []string
}

// SameMembership reports whether the observed membership matches the given
// set, ignoring case and ordering.
func (o Observed) SameMembership(memberOf []string) bool {
	return stringutils.EqualFoldSets(o.MemberOf, memberOf)
}

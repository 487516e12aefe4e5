// Package reconciler compares the desired state of a group with the state
// reported by the remote service and issues the minimal set of changes.
package reconciler

import (
	"context"
	"strings"

	"github.com/ubuntu/decorate"

	"github.com/aem-tools/groupctl/internal/group"
)

// Actions reported in a Result.
const (
	ActionCreated       = "group created"
	ActionNameUpdated   = "name updated"
	ActionGroupsUpdated = "groups updated"
	ActionDeleted       = "group deleted"
)

// Client is the remote service handle needed by the reconciler.
type Client interface {
	Group(ctx context.Context, id string) (observed group.Observed, exists bool, err error)
	CreateGroup(ctx context.Context, id, name string, memberOf []string) error
	SetGroupName(ctx context.Context, id, name string) error
	SetGroupMembership(ctx context.Context, id string, memberOf []string) error
	DeleteGroup(ctx context.Context, id string) error
}

// Result reports what a reconciliation changed, in order.
type Result struct {
	Changed bool
	Actions []string
}

// Summary returns the actions as one human readable line.
func (r Result) Summary() string {
	return strings.Join(r.Actions, ", ")
}

func (r *Result) record(action string) {
	r.Changed = true
	r.Actions = append(r.Actions, action)
}

// Reconciler applies desired group states to one remote instance.
//
// In dry run mode the outcome is computed exactly as in live mode, but no
// mutating request is sent.
type Reconciler struct {
	client Client
	dryRun bool
}

// New returns a reconciler using the given client.
func New(client Client, dryRun bool) *Reconciler {
	return &Reconciler{client: client, dryRun: dryRun}
}

// Apply fetches the current state of the desired group and converges the
// remote service towards it. It stops at the first failing call.
func (r *Reconciler) Apply(ctx context.Context, desired group.Desired) (res Result, err error) {
	defer decorate.OnError(&err, "could not reconcile group %q", desired.ID)

	// State is validated before anything touches the network.
	switch desired.State {
	case group.StatePresent, group.StateAbsent:
	default:
		return Result{}, &group.InvalidStateError{Value: string(desired.State)}
	}
	if desired.ID == "" {
		return Result{}, &MissingFieldError{Field: "id"}
	}

	observed, exists, err := r.client.Group(ctx, desired.ID)
	if err != nil {
		return Result{}, err
	}

	if desired.State == group.StateAbsent {
		return r.applyAbsent(ctx, desired.ID, exists)
	}
	return r.applyPresent(ctx, desired, observed, exists)
}

func (r *Reconciler) applyPresent(ctx context.Context, desired group.Desired, observed group.Observed, exists bool) (Result, error) {
	var res Result

	if !exists {
		if desired.DisplayName == "" {
			return Result{}, &MissingFieldError{Field: "name"}
		}
		if !r.dryRun {
			if err := r.client.CreateGroup(ctx, desired.ID, desired.DisplayName, desired.MemberOf); err != nil {
				return Result{}, err
			}
		}
		res.record(ActionCreated)
		return res, nil
	}

	// Name and membership are reconciled independently: none, one or both may
	// need an update. Empty desired fields are left untouched.
	if desired.DisplayName != "" && desired.DisplayName != observed.DisplayName {
		if !r.dryRun {
			if err := r.client.SetGroupName(ctx, desired.ID, desired.DisplayName); err != nil {
				return Result{}, err
			}
		}
		res.record(ActionNameUpdated)
	}

	if len(desired.MemberOf) > 0 && !observed.SameMembership(desired.MemberOf) {
		if !r.dryRun {
			if err := r.client.SetGroupMembership(ctx, desired.ID, desired.MemberOf); err != nil {
				return Result{}, err
			}
		}
		res.record(ActionGroupsUpdated)
	}

	return res, nil
}

func (r *Reconciler) applyAbsent(ctx context.Context, id string, exists bool) (Result, error) {
	var res Result

	if !exists {
		return res, nil
	}

	if !r.dryRun {
		if err := r.client.DeleteGroup(ctx, id); err != nil {
			return Result{}, err
		}
	}
	res.record(ActionDeleted)
	return res, nil
}

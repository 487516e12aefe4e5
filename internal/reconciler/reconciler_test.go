package reconciler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aem-tools/groupctl/internal/group"
	"github.com/aem-tools/groupctl/internal/reconciler"
)

// fakeClient records the mutating calls issued by the reconciler.
type fakeClient struct {
	observed group.Observed
	exists   bool

	groupErr  error
	mutateErr error

	calls []string

	gotName     string
	gotMemberOf []string
}

func (f *fakeClient) Group(context.Context, string) (group.Observed, bool, error) {
	return f.observed, f.exists, f.groupErr
}

func (f *fakeClient) CreateGroup(_ context.Context, _, name string, memberOf []string) error {
	f.calls = append(f.calls, "create")
	f.gotName = name
	f.gotMemberOf = memberOf
	return f.mutateErr
}

func (f *fakeClient) SetGroupName(_ context.Context, _, name string) error {
	f.calls = append(f.calls, "setName")
	f.gotName = name
	return f.mutateErr
}

func (f *fakeClient) SetGroupMembership(_ context.Context, _ string, memberOf []string) error {
	f.calls = append(f.calls, "setMembership")
	f.gotMemberOf = memberOf
	return f.mutateErr
}

func (f *fakeClient) DeleteGroup(context.Context, string) error {
	f.calls = append(f.calls, "delete")
	return f.mutateErr
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		desired  group.Desired
		observed group.Observed
		exists   bool
		dryRun   bool

		groupErr  error
		mutateErr error

		wantResult reconciler.Result
		wantCalls  []string
		wantErr    bool
	}{
		"No change when absent group should stay absent": {
			desired: group.Desired{ID: "devs", State: group.StateAbsent},
		},
		"Delete group which should be absent": {
			desired:    group.Desired{ID: "devs", State: group.StateAbsent},
			exists:     true,
			wantResult: reconciler.Result{Changed: true, Actions: []string{reconciler.ActionDeleted}},
			wantCalls:  []string{"delete"},
		},
		"Create missing group": {
			desired:    group.Desired{ID: "devs", DisplayName: "Developers", MemberOf: []string{"admins"}, State: group.StatePresent},
			wantResult: reconciler.Result{Changed: true, Actions: []string{reconciler.ActionCreated}},
			wantCalls:  []string{"create"},
		},
		"No change when name and membership already match": {
			desired:  group.Desired{ID: "devs", DisplayName: "Developers", MemberOf: []string{"ADMINS", "ReadOnly"}, State: group.StatePresent},
			observed: group.Observed{DisplayName: "Developers", MemberOf: []string{"readonly", "admins"}},
			exists:   true,
		},
		"Update name on mismatch": {
			desired:    group.Desired{ID: "devs", DisplayName: "Developers", State: group.StatePresent},
			observed:   group.Observed{DisplayName: "Old name"},
			exists:     true,
			wantResult: reconciler.Result{Changed: true, Actions: []string{reconciler.ActionNameUpdated}},
			wantCalls:  []string{"setName"},
		},
		"Update membership on mismatch": {
			desired:    group.Desired{ID: "devs", MemberOf: []string{"admins", "qa"}, State: group.StatePresent},
			observed:   group.Observed{MemberOf: []string{"admins"}},
			exists:     true,
			wantResult: reconciler.Result{Changed: true, Actions: []string{reconciler.ActionGroupsUpdated}},
			wantCalls:  []string{"setMembership"},
		},
		"Update name and membership in one run": {
			desired:    group.Desired{ID: "devs", DisplayName: "Developers", MemberOf: []string{"admins"}, State: group.StatePresent},
			observed:   group.Observed{DisplayName: "Old name", MemberOf: []string{"qa"}},
			exists:     true,
			wantResult: reconciler.Result{Changed: true, Actions: []string{reconciler.ActionNameUpdated, reconciler.ActionGroupsUpdated}},
			wantCalls:  []string{"setName", "setMembership"},
		},
		"Leave name alone when desired name is empty": {
			desired:  group.Desired{ID: "devs", State: group.StatePresent},
			observed: group.Observed{DisplayName: "Whatever"},
			exists:   true,
		},
		"Leave membership alone when desired set is empty": {
			desired:  group.Desired{ID: "devs", DisplayName: "Developers", State: group.StatePresent},
			observed: group.Observed{DisplayName: "Developers", MemberOf: []string{"admins"}},
			exists:   true,
		},

		"Dry run reports creation without creating": {
			desired:    group.Desired{ID: "devs", DisplayName: "Developers", State: group.StatePresent},
			dryRun:     true,
			wantResult: reconciler.Result{Changed: true, Actions: []string{reconciler.ActionCreated}},
		},
		"Dry run reports deletion without deleting": {
			desired:    group.Desired{ID: "devs", State: group.StateAbsent},
			exists:     true,
			dryRun:     true,
			wantResult: reconciler.Result{Changed: true, Actions: []string{reconciler.ActionDeleted}},
		},
		"Dry run reports updates without updating": {
			desired:    group.Desired{ID: "devs", DisplayName: "Developers", MemberOf: []string{"admins"}, State: group.StatePresent},
			observed:   group.Observed{DisplayName: "Old name", MemberOf: []string{"qa"}},
			exists:     true,
			dryRun:     true,
			wantResult: reconciler.Result{Changed: true, Actions: []string{reconciler.ActionNameUpdated, reconciler.ActionGroupsUpdated}},
		},

		"Error when creating without a name": {
			desired: group.Desired{ID: "devs", State: group.StatePresent},
			wantErr: true,
		},
		"Error when desired state is invalid": {
			desired: group.Desired{ID: "devs", State: "gone"},
			wantErr: true,
		},
		"Error when id is empty": {
			desired: group.Desired{State: group.StatePresent},
			wantErr: true,
		},
		"Error when fetching the group fails": {
			desired:  group.Desired{ID: "devs", State: group.StatePresent},
			groupErr: errors.New("transport down"),
			wantErr:  true,
		},
		"Error when the create call fails": {
			desired:   group.Desired{ID: "devs", DisplayName: "Developers", State: group.StatePresent},
			mutateErr: errors.New("remote refused"),
			wantCalls: []string{"create"},
			wantErr:   true,
		},
		"Error when the delete call fails": {
			desired:   group.Desired{ID: "devs", State: group.StateAbsent},
			exists:    true,
			mutateErr: errors.New("remote refused"),
			wantCalls: []string{"delete"},
			wantErr:   true,
		},
		"Error stops before the membership update when the name update fails": {
			desired:   group.Desired{ID: "devs", DisplayName: "Developers", MemberOf: []string{"admins"}, State: group.StatePresent},
			observed:  group.Observed{DisplayName: "Old name", MemberOf: []string{"qa"}},
			exists:    true,
			mutateErr: errors.New("remote refused"),
			wantCalls: []string{"setName"},
			wantErr:   true,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client := &fakeClient{observed: tc.observed, exists: tc.exists, groupErr: tc.groupErr, mutateErr: tc.mutateErr}
			r := reconciler.New(client, tc.dryRun)

			got, err := r.Apply(context.Background(), tc.desired)
			require.Equal(t, tc.wantCalls, client.calls, "Apply issued unexpected mutating calls")
			if tc.wantErr {
				require.Error(t, err, "Apply should have failed")
				return
			}
			require.NoError(t, err, "Apply failed unexpectedly")
			require.Equal(t, tc.wantResult, got, "Apply returned an unexpected result")
		})
	}
}

func TestApplyErrorKinds(t *testing.T) {
	t.Parallel()

	r := reconciler.New(&fakeClient{}, false)

	_, err := r.Apply(context.Background(), group.Desired{ID: "devs", State: group.StatePresent})
	var missingErr *reconciler.MissingFieldError
	require.ErrorAs(t, err, &missingErr, "Creating without a name should be a MissingFieldError")
	require.Equal(t, "name", missingErr.Field, "MissingFieldError should name the missing field")

	_, err = r.Apply(context.Background(), group.Desired{ID: "devs", State: "borked"})
	var stateErr *group.InvalidStateError
	require.ErrorAs(t, err, &stateErr, "An unknown state should be an InvalidStateError")
}

func TestApplyPassesDesiredValues(t *testing.T) {
	t.Parallel()

	client := &fakeClient{observed: group.Observed{DisplayName: "Old", MemberOf: []string{"qa"}}, exists: true}
	r := reconciler.New(client, false)

	desired := group.Desired{ID: "devs", DisplayName: "Developers", MemberOf: []string{"admins", "readonly"}, State: group.StatePresent}
	_, err := r.Apply(context.Background(), desired)
	require.NoError(t, err, "Apply failed unexpectedly")

	require.Equal(t, "Developers", client.gotName, "The name update should carry the desired name")
	require.Equal(t, []string{"admins", "readonly"}, client.gotMemberOf, "The membership update should carry the full desired set")
}

func TestResultSummary(t *testing.T) {
	t.Parallel()

	res := reconciler.Result{Changed: true, Actions: []string{reconciler.ActionNameUpdated, reconciler.ActionGroupsUpdated}}
	require.Equal(t, "name updated, groups updated", res.Summary(), "Summary should join the actions")
}

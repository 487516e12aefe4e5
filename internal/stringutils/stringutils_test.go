package stringutils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aem-tools/groupctl/internal/stringutils"
)

func TestEqualFoldSets(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a []string
		b []string

		wantEqual bool
	}{
		"Equal when both sets are empty":             {wantEqual: true},
		"Equal when elements match exactly":          {a: []string{"admins", "readonly"}, b: []string{"admins", "readonly"}, wantEqual: true},
		"Equal when elements differ only in case":    {a: []string{"admins", "readonly"}, b: []string{"ADMINS", "ReadOnly"}, wantEqual: true},
		"Equal when elements differ only in order":   {a: []string{"readonly", "admins"}, b: []string{"admins", "readonly"}, wantEqual: true},
		"Equal when one side contains duplicates":    {a: []string{"admins", "admins"}, b: []string{"ADMINS"}, wantEqual: true},
		"Equal when nil compared with empty":         {a: nil, b: []string{}, wantEqual: true},

		"Not equal when one side has an extra element": {a: []string{"admins", "readonly"}, b: []string{"admins"}},
		"Not equal when elements differ":               {a: []string{"admins"}, b: []string{"readonly"}},
		"Not equal when one side is empty":             {a: []string{"admins"}, b: nil},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := stringutils.EqualFoldSets(tc.a, tc.b)
			require.Equal(t, tc.wantEqual, got, "EqualFoldSets returned an unexpected result")
		})
	}
}

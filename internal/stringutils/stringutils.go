// Package stringutils provides utility functions for string operations.
package stringutils

import "strings"

// EqualFoldSets reports whether a and b contain the same elements, ignoring
// case, ordering and duplicates.
func EqualFoldSets(a, b []string) bool {
	am := foldSet(a)
	bm := foldSet(b)

	if len(am) != len(bm) {
		return false
	}
	for k := range am {
		if _, ok := bm[k]; !ok {
			return false
		}
	}
	return true
}

func foldSet(elems []string) map[string]struct{} {
	m := make(map[string]struct{}, len(elems))
	for _, e := range elems {
		m[strings.ToLower(e)] = struct{}{}
	}
	return m
}

package analyzer

import "strings"

// Reconcile resolves duplicate function identities within one file's raw
// name set. For every bare name that also appears as the method suffix of
// a class-qualified name, the bare form is dropped; the class-qualified
// form is treated as authoritative. All qualified names and all bare names
// without a qualified counterpart are kept.
//
// This is a pure set transformation; it does not attempt to determine
// whether the bare and qualified occurrences are truly the same function.
func Reconcile(names StringSet) StringSet {
	methodSuffixes := make(StringSet)
	for name := range names {
		if i := strings.LastIndex(name, "."); i >= 0 {
			methodSuffixes.Add(name[i+1:])
		}
	}

	reconciled := make(StringSet, len(names))
	for name := range names {
		if strings.Contains(name, ".") || !methodSuffixes.Has(name) {
			reconciled.Add(name)
		}
	}
	return reconciled
}

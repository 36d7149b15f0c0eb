// Package crud holds the list/form pair shared by every entity screen: a
// List that owns the in-memory collection for one resource scope, a Form
// that collects input for one entity and hands the server's answer back,
// and the reconciliation functions that merge confirmed results into the
// collection.
package crud

import (
	"slices"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

// ApplyCreate returns items with created appended. The caller guarantees
// created carries a server-assigned id not already present.
func ApplyCreate[T domain.Entity](items []T, created T) []T {
	next := make([]T, 0, len(items)+1)
	next = append(next, items...)
	return append(next, created)
}

// ApplyUpdate replaces, in place, the element whose id matches updated.
// When nothing matches it returns items untouched and false.
func ApplyUpdate[T domain.Entity](items []T, updated T) ([]T, bool) {
	i := slices.IndexFunc(items, func(e T) bool { return e.EntityID() == updated.EntityID() })
	if i < 0 {
		return items, false
	}
	next := slices.Clone(items)
	next[i] = updated
	return next, true
}

// ApplyDelete returns items without the element whose id is id.
func ApplyDelete[T domain.Entity](items []T, id int64) []T {
	next := make([]T, 0, len(items))
	for _, e := range items {
		if e.EntityID() != id {
			next = append(next, e)
		}
	}
	return next
}

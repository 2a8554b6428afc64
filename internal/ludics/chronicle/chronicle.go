// Package chronicle extracts the decisive justification chain from a
// completed interaction trace.
package chronicle

import (
	"github.com/openagora/ludics/internal/ludics/interaction"
	"github.com/openagora/ludics/internal/ludics/locus"
)

// DecisiveChain walks a trace backward from its last play and keeps every
// earlier play whose positive act's justifying locus is an ancestor-or-equal
// of the locus accumulated so far. The rest of the trace was filler that did
// not contribute to the terminal verdict.
//
// justify maps positive act ids to their justifying locus; plays absent from
// the map justify at their own pair locus. hint, when non-empty, seeds the
// accumulated locus instead of the final play's.
//
// The result is strictly increasing, always contains the last index, and is
// empty only for an empty trace. No stepping is re-executed.
func DecisiveChain(pairs []interaction.Pair, justify map[string]string, hint string) []int {
	if len(pairs) == 0 {
		return nil
	}

	last := len(pairs) - 1
	accumulated := pairs[last].LocusPath
	if hint != "" {
		accumulated = hint
	}

	indices := []int{last}
	for i := last - 1; i >= 0; i-- {
		justifier := justify[pairs[i].PosActID]
		if justifier == "" {
			justifier = pairs[i].LocusPath
		}
		if !locus.IsAncestorOrEqual(justifier, accumulated) {
			continue
		}
		indices = append(indices, i)
		accumulated = pairs[i].LocusPath
	}

	// Reverse into play order.
	for l, r := 0, len(indices)-1; l < r; l, r = l+1, r-1 {
		indices[l], indices[r] = indices[r], indices[l]
	}
	return indices
}

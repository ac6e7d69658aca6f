// Package ego implements the EgoSelector component (C8, §4.7): picking
// which actor is the ego vehicle for the planning problem.
package ego

import (
	"regexp"
	"sort"
)

// Select implements §4.7: if filter is set and matches at least one name,
// return the lexicographically smallest matching name with matched=true.
// Otherwise return the lexicographically smallest of all names with
// matched=false. names must be non-empty; ConversionCoordinator fails the
// conversion before calling Select when there are zero actors (§4.10
// step 3's NoDynamicBehaviorFound).
func Select(names []string, filter *regexp.Regexp) (name string, matched bool) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	if filter != nil {
		for _, n := range sorted {
			if filter.MatchString(n) {
				return n, true
			}
		}
	}
	return sorted[0], false
}

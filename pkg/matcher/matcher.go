package matcher

import (
	"github.com/snapfriend/snapfriend/pkg/lvm"
)

// Resolve selects the snapshot source for a mount request.
//
// Groups are tried strictly in the order given; within a group the catalog
// is scanned in its own order (most recently created first) and the first
// volume carrying every prefixed tag of the group wins. The first group
// that yields a match ends the search; later groups are never consulted,
// because group order encodes the client's preference, most specific first.
//
// Returns ok=false when no group matches (including an empty groups list);
// the caller falls back to the default volume. No match is an expected
// outcome, not an error.
func Resolve(groups [][]string, catalog []lvm.Volume, tagPrefix string) (lvm.Volume, bool) {
	for _, group := range groups {
		required := lvm.PrefixTags(tagPrefix, group)
		for _, v := range catalog {
			// An empty group has no required tags and matches the
			// most recent volume unconditionally.
			if v.HasAllTags(required) {
				return v, true
			}
		}
	}
	return lvm.Volume{}, false
}

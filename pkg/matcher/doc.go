/*
Package matcher selects the snapshot source volume for a mount request.

A mount request carries an ordered list of tag groups (the `>` lines of the
wire protocol). Each group is a set of tags that must ALL be present on a
candidate volume, after the configured namespace prefix is applied. The
matcher implements a strict "first group, first catalog hit" policy:

	for each group, in request order:
	    for each volume, most recent first:
	        if volume has every prefixed tag of the group → done

This is deliberately not a global best-match search. Group order encodes
client-declared preference (list the most specific group first) and a hit
in an earlier group always beats any hit in a later one, even a more recent
one:

	> my-application hash-of-dependencies
	> my-application

first looks for the newest volume carrying both tags, and only if nothing
matches falls back to the newest volume carrying just my-application.

When no group matches, Resolve reports ok=false and the daemon uses the
default volume it resolved at startup. The no-match case is ordinary control
flow, not an error.
*/
package matcher

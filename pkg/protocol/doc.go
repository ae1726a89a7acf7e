/*
Package protocol implements the line-oriented mount request protocol.

Clients speak a minimal newline-delimited text protocol over the daemon's
unix socket. One connection carries zero or more mount records, each
terminated by a blank line:

	mount /some/mount/path
	> tags separated by whitespace
	< tags separated by whitespace

	mount /another/path
	> my-application hash-of-dependencies
	> my-application
	< my-application hash-of-dependencies

	bye

Lines prefixed with `>` each contribute one find group: ALL tags on the line
must be present on a volume for it to match, and groups are tried in order,
so clients list their most specific group first. Lines prefixed with `<`
accumulate the tags to apply to the snapshot created for the mount. A bare
`>` is an empty group and matches the most recent volume unconditionally.

`bye` (with an optional reason) closes the session cleanly after a farewell
line; end of stream or a blank top-level line closes it silently. Any other
top-level line is answered with

	unexpected `the line`

and ends the session, while an unrecognized line inside a record is answered
with

	ignoring unexpected `the line`

and the record continues.

# Responses

The session layer itself only writes protocol complaints and the farewell.
After the daemon handles a request it writes exactly one line back: the
"<group> <name>" identity of the volume used as the snapshot source on
success, or the captured stderr of the failing step on failure. There is no
structured status code on the wire; clients infer success from the response
text or the filesystem. ncat -U is a convenient client because it waits for
the server to close the connection:

	ncat -U /run/snapfriend/socket <<EOF
	mount /some/place
	> my-application
	< my-application
	EOF

# Parsing Model

Session.Next is a pull-based state machine with two states,
awaiting-command and in-record. It blocks only at the line-read boundary,
never mid-parse, so read deadlines imposed by the daemon surface as plain
read errors between lines.
*/
package protocol

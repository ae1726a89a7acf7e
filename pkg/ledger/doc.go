/*
Package ledger persists a record of every snapshot the daemon attempts.

The wire protocol gives clients only a single response line and no status
code, and the snapshots themselves are visible only as lvm volumes with
opaque generated names. The ledger fills that observability gap: each mount
request leaves one entry in a BoltDB file recording the generated snapshot
name, the source volume, the applied tags, the destination path, the peer
pid, and the failure text when the sequence did not complete.

	snapfriend history

dumps the ledger. Keys are the generated snapshot names, which embed a
timestamp and therefore sort chronologically; the ledger is append-only in
practice and never consulted by the matching algorithm; the live catalog
remains the single source of truth for volume selection.

The ledger is optional: it is only opened when data_dir is configured, and
a daemon without it behaves identically on the wire.
*/
package ledger

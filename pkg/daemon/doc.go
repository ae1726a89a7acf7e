/*
Package daemon is the snapfriend accept-and-serve loop.

The daemon brokers on-demand lvm snapshots for another process over a unix
domain socket. One connection is serviced at a time, strictly serially: the
next client cannot even connect until the current one has disconnected.
Within a connection, requests are handled in order, each fully completed and
answered before the next line is read. This deliberately simple scheduling
matches the documented assumption of a single client mounting one volume at
a time.

# Request Flow

	accept ──► peer pid (SO_PEERCRED)
	       ──► protocol session yields mount requests
	             │
	             ├─► fresh catalog read (lvs)
	             ├─► tag matcher picks the source (or default volume)
	             ├─► orchestrator: lvcreate + namespace mount sequence
	             ├─► ledger entry (when configured)
	             └─► one response line on the same connection

# Startup

Start resolves the default volume (the most recent volume carrying the
configured default tag) exactly once and caches it for the life of the
process. A missing default volume or an unreadable catalog at startup is
fatal: the daemon refuses to serve without a fallback source. Everything
after startup degrades per-connection instead: a catalog read failure aborts
the current connection, an orchestration failure is reported to the client
as text, and a peer timeout abandons that peer. None of these crash the
daemon.

# Shutdown

Stop closes the listener; a blocking Accept returns immediately and Serve
exits cleanly. The serve command wires SIGINT/SIGTERM to Stop, so an
interrupt while waiting for a connection is a clean shutdown with exit code
0. There is never in-flight work at that point: the mount sequence is
synchronous with the request loop and runs to completion or failure before
the loop can observe anything else.
*/
package daemon

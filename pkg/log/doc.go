/*
Package log provides structured logging for snapfriend using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. All logs include timestamps and support filtering
by severity level for production debugging.

# Architecture

The daemon emits a small, fixed vocabulary of log fields so that journald or
any JSON log pipeline can slice its output by connection:

	Global Logger (zerolog)
	     │
	     ├── WithComponent("daemon")     one child logger per subsystem
	     ├── WithComponent("mounter")
	     └── WithComponent("subp")

Connection-scoped fields (conn_id, peer_pid) are added by the daemon as
plain zerolog child loggers of its component logger.

# Usage

Initialize once at process start, before any component is constructed:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
	})

Component loggers are plain zerolog.Logger values and are safe for concurrent
use:

	logger := log.WithComponent("catalog")
	logger.Info().Int("volumes", len(vols)).Msg("catalog read")

Console (non-JSON) output is the default for interactive runs; pass
JSONOutput when running under a supervisor that collects structured logs.

# Log Levels

  - debug: every external command invocation with argv and captured stderr
  - info:  connections, matches, snapshots created, mounts delivered
  - warn:  peer timeouts, ignored protocol lines, best-effort unmount failures
  - error: catalog read failures, orchestration failures

Best-effort cleanup failures are logged at warn and never escalated; they
must not replace the original failure being reported to the client.
*/
package log

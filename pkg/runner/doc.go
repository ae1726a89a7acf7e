/*
Package runner provides external command execution for snapfriend.

Every side effect this daemon performs on the host (reading the LVM catalog,
creating snapshots, mounting and unmounting) goes through a single external
command invocation. The runner package models that invocation as a small
injectable capability so that higher layers can be tested against fakes
without touching lvm2 or mount(8).

# Architecture

	┌──────────────────────────────────────┐
	│             Runner API               │
	│  Run(ctx, argv...) (stdout, error)   │
	└────────┬─────────────────────────────┘
	         │
	    ┌────┴─────┐
	    ▼          ▼
	┌────────┐  ┌─────────┐
	│ Exec   │  │ Fakes   │  (tests record argv sequences)
	│ Runner │  │         │
	└────────┘  └─────────┘

# Failure Model

A command that cannot be started at all is returned as a wrapped error. A
command that runs and exits non-zero is returned as *ExitError, which keeps
argv, exit code, stdout and stderr. ExitError.Error() yields the captured
stderr text, because that text is what gets relayed verbatim to the client
on the wire when a mount sequence fails. Best-effort cleanup during rollback
is handled by the callers, which log such failures at warn level so a cleanup
error never replaces the original failure being reported.

# Usage

	r := runner.NewExecRunner()
	out, err := r.Run(ctx, "lvs", "--reportformat", "json")
	if err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) {
			// exitErr.Stderr holds the diagnostic text
		}
	}

All invocations are synchronous; there is no background execution, matching
the daemon's strictly serial request handling.
*/
package runner

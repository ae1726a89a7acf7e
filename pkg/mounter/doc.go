/*
Package mounter creates snapshots and grafts them into peer mount namespaces.

This is the delicate part of the daemon. Delivering a snapshot to a client
establishes mount points in two namespaces, the daemon's own and the
requesting process's, and a half-completed sequence leaves dangling mounts
that block every later attempt at the same staging paths. The orchestrator
therefore pairs every acquisition with a guaranteed release on every exit
path.

# Mount Sequence

Given a freshly created snapshot device and a destination dst in the
namespace of process pid:

	(a) mount --bind stage stage                      own namespace
	(b) mount -o <opts> /dev/<vg>/<snap> stage/inner  own namespace
	(c) mount --namespace pid --make-private stage    peer namespace
	(d) mount --namespace pid --move stage/inner dst  peer namespace

Step (a) turns the shared staging directory into a mount point that can be
manipulated independently of its parent mount; step (c) detaches propagation
inside the peer namespace so the move does not leak elsewhere. The sequence
follows the mount_in_namespace logic in systemd's mount-util.c.

# Unwinding

Releases are nested LIFO around the acquisitions, with one correction: a
successful move consumes the inner mount, so it must NOT be unmounted again.

	success:        umount stage                       (own)
	(d) fails:      umount --namespace pid stage/inner (peer)
	                umount --namespace pid stage       (peer)
	                umount stage/inner                 (own)
	                umount stage                       (own)
	(c) fails:      umount stage/inner, umount stage   (own)
	(b) fails:      umount stage                       (own)
	(a) fails:      nothing to unwind

All unwind unmounts are best-effort: run while already handling a prior
failure, their own failure is logged at warn and never escalated, so the
original error stays the one reported to the client. The resulting
filesystem state after a failed unwind is not re-verified; that is an
accepted risk.

# External Operations

The Controller interface models the privileged operations (bind, mount,
make-private, move, unmount, namespace-scoped unmount) so the orchestrator
can be tested against a fake that records call sequences. ExecController
shells out to mount(8)/umount(8); a non-zero exit with captured stderr is
the sole failure signal.

# Staging Hygiene

Staging directories live next to the daemon socket and are created at
startup. Because a crash mid-sequence can leave a stale stage bind-mount
behind, CleanStale inspects the mount table (moby/sys/mountinfo) once at
startup and unmounts leftovers before the daemon starts serving.
*/
package mounter

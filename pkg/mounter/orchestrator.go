package mounter

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/snapfriend/snapfriend/pkg/log"
	"github.com/snapfriend/snapfriend/pkg/lvm"
)

// Config holds the orchestrator's creation-time settings.
type Config struct {
	// TagPrefix namespaces every client-supplied tag.
	TagPrefix string

	// SnapshotTag is the bonus tag added to every snapshot this daemon
	// creates. Empty disables it. Not subject to TagPrefix.
	SnapshotTag string

	// NamePrefix is prepended to generated snapshot names.
	NamePrefix string

	// MountOptions is passed to mount -o when mounting the snapshot.
	MountOptions string
}

// Orchestrator creates a tagged snapshot of a resolved source volume and
// grafts it into the mount namespace of the requesting process.
type Orchestrator struct {
	creator lvm.SnapshotCreator
	mounts  Controller
	staging *Staging
	cfg     Config
	logger  zerolog.Logger
}

// NewOrchestrator creates a snapshot orchestrator
func NewOrchestrator(creator lvm.SnapshotCreator, mounts Controller, staging *Staging, cfg Config) *Orchestrator {
	return &Orchestrator{
		creator: creator,
		mounts:  mounts,
		staging: staging,
		cfg:     cfg,
		logger:  log.WithComponent("mounter"),
	}
}

// Execute runs the full clone-and-mount sequence for one request: generate
// a snapshot name, create the tagged snapshot, and deliver it at dst inside
// the mount namespace of process peerPID. It returns the generated snapshot
// name; when the mount sequence fails the snapshot still exists, so the
// name is returned alongside the error for auditing. An empty name means
// the snapshot itself was never created. On failure the returned error text
// is the captured diagnostic of the failing step, suitable for relaying to
// the client; all previously established mounts have been unwound by the
// time it returns.
func (o *Orchestrator) Execute(ctx context.Context, source lvm.Volume, addTags []string, dst string, peerPID int) (string, error) {
	name := lvm.SnapshotName(o.cfg.NamePrefix)

	tags := lvm.PrefixTags(o.cfg.TagPrefix, addTags)
	if o.cfg.SnapshotTag != "" {
		tags = append(tags, lvm.CleanTag(o.cfg.SnapshotTag))
	}

	if err := o.creator.CreateSnapshot(ctx, source.Group, source.Name, name, tags); err != nil {
		return "", err
	}

	o.logger.Info().
		Str("snapshot", name).
		Str("source", source.Group+"/"+source.Name).
		Strs("tags", tags).
		Msg("snapshot created")

	if err := o.mountIntoNamespace(ctx, source.Group, name, peerPID, dst); err != nil {
		return name, err
	}

	o.logger.Info().
		Str("snapshot", name).
		Str("destination", dst).
		Int("peer_pid", peerPID).
		Msg("snapshot delivered")

	return name, nil
}

// mountIntoNamespace performs the namespace-grafting sequence. Each mount
// is paired with a release on every exit path, with one correction: once
// the move succeeds the inner mount lives at dst in the peer namespace and
// must not be unmounted again, so only the stage self-bind is released.
//
// Based on the mount_in_namespace dance in systemd's mount-util.c.
func (o *Orchestrator) mountIntoNamespace(ctx context.Context, group, name string, pid int, dst string) error {
	stage, inner := o.staging.Stage, o.staging.Inner
	device := fmt.Sprintf("/dev/%s/%s", group, name)

	// (a) Make stage a mount point of its own so it can be manipulated
	// independently of its parent mount.
	if err := o.mounts.Bind(ctx, stage, stage); err != nil {
		return err
	}
	defer o.unmountQuiet(ctx, stage)

	// (b) Mount the snapshot device on the inner staging directory.
	if err := o.mounts.Mount(ctx, device, inner, o.cfg.MountOptions); err != nil {
		return err
	}
	moved := false
	defer func() {
		if !moved {
			o.unmountQuiet(ctx, inner)
		}
	}()

	// (c) Detach propagation of stage inside the peer namespace so the
	// move below does not leak into other namespaces.
	if err := o.mounts.MakePrivate(ctx, pid, stage); err != nil {
		return err
	}
	defer func() {
		if !moved {
			o.unmountInQuiet(ctx, pid, stage)
		}
	}()

	// (d) Deliver: move the inner mount to the requested destination
	// inside the peer namespace.
	if err := o.mounts.Move(ctx, pid, inner, dst); err != nil {
		// The inner mount still exists at its staging location in the
		// peer namespace; unmount it there before the deferred stage
		// unwinds run.
		o.unmountInQuiet(ctx, pid, inner)
		return err
	}
	moved = true

	return nil
}

// unmountQuiet is a best-effort unmount in our own namespace; failure is
// logged, never escalated, so it cannot mask an original error.
func (o *Orchestrator) unmountQuiet(ctx context.Context, target string) {
	if err := o.mounts.Unmount(ctx, target); err != nil {
		o.logger.Warn().Err(err).Str("target", target).Msg("best-effort unmount failed")
	}
}

// unmountInQuiet is a best-effort unmount inside the peer namespace.
func (o *Orchestrator) unmountInQuiet(ctx context.Context, pid int, target string) {
	if err := o.mounts.UnmountIn(ctx, pid, target); err != nil {
		o.logger.Warn().Err(err).Int("peer_pid", pid).Str("target", target).Msg("best-effort unmount failed")
	}
}

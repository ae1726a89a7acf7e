package mounter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moby/sys/mountinfo"
	"github.com/snapfriend/snapfriend/pkg/log"
)

// Staging holds the shared intermediate mount points used to deliver a
// snapshot into a peer namespace. The directories are reused serially
// across requests; every request tears its own mounts down before the
// response is written, and only one request is ever in flight.
type Staging struct {
	// Stage is the directory that gets bind-mounted onto itself so it can
	// be manipulated independently of its parent mount.
	Stage string

	// Inner is the subdirectory the snapshot device is mounted on before
	// being moved into the peer namespace.
	Inner string
}

// NewStaging creates the staging directories under parent, typically the
// directory holding the daemon's socket. Existing directories are reused.
func NewStaging(parent string) (*Staging, error) {
	s := &Staging{
		Stage: filepath.Join(parent, "stage"),
		Inner: filepath.Join(parent, "stage", "inner"),
	}

	logger := log.WithComponent("mounter")
	for _, dir := range []string{s.Stage, s.Inner} {
		if err := os.Mkdir(dir, 0755); err != nil {
			if !os.IsExist(err) {
				return nil, fmt.Errorf("failed to create staging directory %s: %w", dir, err)
			}
			continue
		}
		logger.Info().Str("path", dir).Msg("created staging directory")
	}

	return s, nil
}

// CleanStale unmounts staging mount points left behind by a previous crash.
// A dangling stage bind-mount blocks every future mount sequence, so this
// runs once at startup before the daemon begins listening.
func (s *Staging) CleanStale(ctx context.Context, ctrl Controller) {
	logger := log.WithComponent("mounter")

	// Inner first: it sits on top of the stage bind-mount.
	for _, target := range []string{s.Inner, s.Stage} {
		mounted, err := mountinfo.Mounted(target)
		if err != nil {
			logger.Warn().Err(err).Str("path", target).Msg("could not inspect staging mount state")
			continue
		}
		if !mounted {
			continue
		}
		logger.Warn().Str("path", target).Msg("found stale staging mount, unmounting")
		if err := ctrl.Unmount(ctx, target); err != nil {
			logger.Warn().Err(err).Str("path", target).Msg("failed to unmount stale staging mount")
		}
	}
}

package lvm

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/snapfriend/snapfriend/pkg/runner"
)

// LVMCreator creates snapshots by invoking lvcreate.
type LVMCreator struct {
	runner runner.Runner
}

// NewLVMCreator creates a snapshot creator backed by the lvcreate command
func NewLVMCreator(r runner.Runner) *LVMCreator {
	return &LVMCreator{runner: r}
}

// CreateSnapshot creates a copy-on-write snapshot of group/origin named
// name, tagged at creation time. lvcreate applies --addtag atomically with
// creation, so the snapshot is immediately eligible for tag matching.
func (c *LVMCreator) CreateSnapshot(ctx context.Context, group, origin, name string, tags []string) error {
	// lvcreate --reportformat json does not work with --snapshot, so the
	// output is not parsed.
	argv := []string{
		"lvcreate",
		"--snapshot", fmt.Sprintf("%s/%s", group, origin),
		"--ignoreactivationskip",
		"--name", name,
	}
	for _, tag := range tags {
		argv = append(argv, "--addtag", tag)
	}

	if _, err := c.runner.Run(ctx, argv...); err != nil {
		return err
	}
	return nil
}

// SnapshotName generates a name for a new snapshot: the configured prefix
// plus a base64url encoding of a 32-bit unix timestamp and 16 random bits.
// Names sort chronologically and collide only if two are generated within
// the same second with the same random value; uniqueness is probabilistic,
// there is no existence check against the live catalog.
func SnapshotName(prefix string) string {
	var buf [6]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(time.Now().Unix()))
	binary.BigEndian.PutUint16(buf[4:6], uint16(rand.Uint32()))
	return prefix + base64.URLEncoding.EncodeToString(buf[:])
}

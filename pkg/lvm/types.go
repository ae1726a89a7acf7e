package lvm

import (
	"context"
	"slices"
)

// Volume represents one logical volume as reported by the catalog at a
// point in time. Volumes are never mutated by the daemon; a fresh list is
// read for every request because other tools on the host may create or
// delete volumes concurrently.
type Volume struct {
	Group string   // volume group name
	Name  string   // logical volume name, unique within the group
	Tags  []string // free-form lvm tags
}

// HasTag reports whether the volume carries the exact tag.
func (v Volume) HasTag(tag string) bool {
	return slices.Contains(v.Tags, tag)
}

// HasAllTags reports whether every tag is present on the volume.
func (v Volume) HasAllTags(tags []string) bool {
	for _, tag := range tags {
		if !v.HasTag(tag) {
			return false
		}
	}
	return true
}

// CatalogReader lists the volumes currently known to the volume manager,
// ordered by creation time with the most recent first.
type CatalogReader interface {
	Catalog(ctx context.Context) ([]Volume, error)
}

// SnapshotCreator creates a copy-on-write snapshot of an existing volume.
// Tags are applied atomically with creation so the new volume is never
// visible untagged.
type SnapshotCreator interface {
	CreateSnapshot(ctx context.Context, group, origin, name string, tags []string) error
}

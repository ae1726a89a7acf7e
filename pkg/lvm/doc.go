/*
Package lvm reads the logical volume catalog and creates tagged snapshots.

This package is the boundary to lvm2. It defines the two capabilities the
rest of the daemon needs from the volume manager, listing volumes and
creating copy-on-write snapshots, as interfaces with implementations that
shell out to lvs and lvcreate through the runner package.

# Architecture

	┌──────────────────────────────────────────────┐
	│               lvm package                    │
	│                                              │
	│  CatalogReader ──► LVMCatalog ──► lvs        │
	│  SnapshotCreator ► LVMCreator ──► lvcreate   │
	│                                              │
	│  CleanTag / PrefixTags   tag namespacing     │
	│  SnapshotName            name generation     │
	└──────────────────────────────────────────────┘

# Catalog Reads

The catalog is an external, unversioned, mutable shared resource: other
tools on the host can create and delete volumes at any time. It is therefore
read fresh for every request and never cached (except for the default
volume, which is resolved once at startup). lvs is invoked with

	lvs --sort -lv_time --options vg_name,lv_name,lv_tags --reportformat json

so the result arrives most-recently-created first, which is the order the
tag matcher depends on. Any failure (the command cannot run, exits
non-zero, or its output does not parse) is a *CatalogError. CatalogError
aborts the current connection but never the daemon, except at startup where
an unreadable catalog is fatal.

# Snapshot Creation

CreateSnapshot runs lvcreate --snapshot with --addtag for every tag, so tag
visibility is atomic with creation: a snapshot-in-progress can never be
half-visible to a concurrent matcher. There is no window where the volume
exists untagged.

# Naming

SnapshotName encodes a 32-bit unix timestamp and 16 random bits as base64url
under a configurable prefix. Names sort chronologically and are unique with
high probability; collisions are accepted rather than checked against the
live catalog, matching the intended usage pattern of a single client
mounting one volume at a time.

# Tag Hygiene

lvm rejects tags containing characters outside its allowed set. CleanTag
replaces offending characters with "-" so arbitrary client-supplied strings
become legal tags rather than failed lvcreate invocations.
*/
package lvm

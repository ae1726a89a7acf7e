package lvm

import (
	"context"
	"strings"
	"testing"

	"github.com/snapfriend/snapfriend/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSnapshotArgv(t *testing.T) {
	r := &fakeRunner{}
	creator := NewLVMCreator(r)

	err := creator.CreateSnapshot(context.Background(), "pool", "base", "friend-abc", []string{"friend:cache:app", "friend:snapshot"})
	require.NoError(t, err)

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{
		"lvcreate",
		"--snapshot", "pool/base",
		"--ignoreactivationskip",
		"--name", "friend-abc",
		"--addtag", "friend:cache:app",
		"--addtag", "friend:snapshot",
	}, r.calls[0])
}

func TestCreateSnapshotNoTags(t *testing.T) {
	r := &fakeRunner{}
	creator := NewLVMCreator(r)

	err := creator.CreateSnapshot(context.Background(), "pool", "base", "friend-abc", nil)
	require.NoError(t, err)
	assert.NotContains(t, r.calls[0], "--addtag")
}

func TestCreateSnapshotRelaysStderr(t *testing.T) {
	r := &fakeRunner{err: &runner.ExitError{
		Argv:   []string{"lvcreate"},
		Code:   5,
		Stderr: "Volume group \"pool\" has insufficient free space",
	}}
	creator := NewLVMCreator(r)

	err := creator.CreateSnapshot(context.Background(), "pool", "base", "friend-abc", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient free space")
}

func TestSnapshotNamePrefixAndLegality(t *testing.T) {
	name := SnapshotName("friend-")
	assert.True(t, strings.HasPrefix(name, "friend-"))

	// base64url of 6 bytes is 8 characters
	assert.Len(t, name, len("friend-")+8)

	// generated names must be legal lvm names/tags without cleaning
	assert.Equal(t, name, CleanTag(name))
}

func TestSnapshotNameUniqueness(t *testing.T) {
	// Probabilistic check: many names generated within the same second
	// should not collide in practice.
	seen := make(map[string]bool)
	collisions := 0
	const samples = 500
	for i := 0; i < samples; i++ {
		name := SnapshotName("friend-")
		if seen[name] {
			collisions++
		}
		seen[name] = true
	}
	// 16 random bits over 500 same-second draws admits the odd birthday
	// collision, but the vast majority must be distinct.
	assert.Less(t, collisions, 10)
}

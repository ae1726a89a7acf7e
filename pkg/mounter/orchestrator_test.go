package mounter

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/snapfriend/snapfriend/pkg/log"
	"github.com/snapfriend/snapfriend/pkg/lvm"
	"github.com/snapfriend/snapfriend/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.Init(log.Config{Level: log.ErrorLevel})
}

// fakeController records every mount operation and fails the ones named in
// failOn.
type fakeController struct {
	calls  []string
	failOn map[string]error
}

func newFakeController(failOn map[string]error) *fakeController {
	return &fakeController{failOn: failOn}
}

func (f *fakeController) record(call string) error {
	f.calls = append(f.calls, call)
	for op, err := range f.failOn {
		if strings.HasPrefix(call, op) {
			return err
		}
	}
	return nil
}

func (f *fakeController) Bind(ctx context.Context, source, target string) error {
	return f.record(fmt.Sprintf("bind %s %s", source, target))
}

func (f *fakeController) Mount(ctx context.Context, device, target, options string) error {
	return f.record(fmt.Sprintf("mount %s %s -o %s", device, target, options))
}

func (f *fakeController) MakePrivate(ctx context.Context, pid int, target string) error {
	return f.record(fmt.Sprintf("make-private [%d] %s", pid, target))
}

func (f *fakeController) Move(ctx context.Context, pid int, source, dest string) error {
	return f.record(fmt.Sprintf("move [%d] %s %s", pid, source, dest))
}

func (f *fakeController) Unmount(ctx context.Context, target string) error {
	return f.record(fmt.Sprintf("umount %s", target))
}

func (f *fakeController) UnmountIn(ctx context.Context, pid int, target string) error {
	return f.record(fmt.Sprintf("umount [%d] %s", pid, target))
}

// fakeCreator records snapshot creations.
type fakeCreator struct {
	group, origin, name string
	tags                []string
	err                 error
}

func (f *fakeCreator) CreateSnapshot(ctx context.Context, group, origin, name string, tags []string) error {
	f.group, f.origin, f.name, f.tags = group, origin, name, tags
	return f.err
}

var testConfig = Config{
	TagPrefix:    "friend:cache:",
	SnapshotTag:  "friend:snapshot",
	NamePrefix:   "friend-",
	MountOptions: "discard",
}

func newTestOrchestrator(creator lvm.SnapshotCreator, ctrl Controller) *Orchestrator {
	staging := &Staging{Stage: "/run/snapfriend/stage", Inner: "/run/snapfriend/stage/inner"}
	return NewOrchestrator(creator, ctrl, staging, testConfig)
}

var source = lvm.Volume{Group: "pool", Name: "base"}

func TestExecuteSuccessPath(t *testing.T) {
	creator := &fakeCreator{}
	ctrl := newFakeController(nil)
	o := newTestOrchestrator(creator, ctrl)

	name, err := o.Execute(context.Background(), source, []string{"app"}, "/dst", 4242)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "friend-"))

	assert.Equal(t, "pool", creator.group)
	assert.Equal(t, "base", creator.origin)
	assert.Equal(t, name, creator.name)
	assert.Equal(t, []string{"friend:cache:app", "friend:snapshot"}, creator.tags)

	device := "/dev/pool/" + name
	assert.Equal(t, []string{
		"bind /run/snapfriend/stage /run/snapfriend/stage",
		"mount " + device + " /run/snapfriend/stage/inner -o discard",
		"make-private [4242] /run/snapfriend/stage",
		"move [4242] /run/snapfriend/stage/inner /dst",
		// after a successful move, only the stage self-bind is released;
		// the inner mount now lives at /dst and must not be touched
		"umount /run/snapfriend/stage",
	}, ctrl.calls)
}

func TestExecuteMoveFailureUnwindsEverything(t *testing.T) {
	moveErr := &runner.ExitError{Argv: []string{"mount"}, Code: 32, Stderr: "mount: /dst: mount point does not exist"}
	ctrl := newFakeController(map[string]error{"move": moveErr})
	creator := &fakeCreator{}
	o := newTestOrchestrator(creator, ctrl)

	name, err := o.Execute(context.Background(), source, nil, "/dst", 4242)
	require.Error(t, err)
	// the original move failure is reported, not any unwind error
	assert.Equal(t, "mount: /dst: mount point does not exist", err.Error())
	// the snapshot exists even though delivery failed; its name comes
	// back so the attempt can be audited
	assert.Equal(t, creator.name, name)
	assert.NotEmpty(t, name)

	require.Len(t, ctrl.calls, 8)
	assert.Equal(t, []string{
		"umount [4242] /run/snapfriend/stage/inner",
		"umount [4242] /run/snapfriend/stage",
		"umount /run/snapfriend/stage/inner",
		"umount /run/snapfriend/stage",
	}, ctrl.calls[4:])
}

func TestExecuteMakePrivateFailureUnwindsMounts(t *testing.T) {
	ctrl := newFakeController(map[string]error{"make-private": &runner.ExitError{Code: 1, Stderr: "no such process"}})
	o := newTestOrchestrator(&fakeCreator{}, ctrl)

	_, err := o.Execute(context.Background(), source, nil, "/dst", 4242)
	require.Error(t, err)

	require.Len(t, ctrl.calls, 5)
	assert.Equal(t, []string{
		"umount /run/snapfriend/stage/inner",
		"umount /run/snapfriend/stage",
	}, ctrl.calls[3:])
}

func TestExecuteDeviceMountFailureUnwindsBind(t *testing.T) {
	ctrl := newFakeController(map[string]error{"mount /dev": &runner.ExitError{Code: 32, Stderr: "wrong fs type"}})
	o := newTestOrchestrator(&fakeCreator{}, ctrl)

	_, err := o.Execute(context.Background(), source, nil, "/dst", 4242)
	require.Error(t, err)
	assert.Equal(t, "wrong fs type", err.Error())

	require.Len(t, ctrl.calls, 3)
	assert.Equal(t, "umount /run/snapfriend/stage", ctrl.calls[2])
}

func TestExecuteBindFailureUnwindsNothing(t *testing.T) {
	ctrl := newFakeController(map[string]error{"bind": &runner.ExitError{Code: 32, Stderr: "permission denied"}})
	o := newTestOrchestrator(&fakeCreator{}, ctrl)

	_, err := o.Execute(context.Background(), source, nil, "/dst", 4242)
	require.Error(t, err)
	assert.Len(t, ctrl.calls, 1)
}

func TestExecuteSnapshotFailureSkipsMounts(t *testing.T) {
	creator := &fakeCreator{err: &runner.ExitError{Code: 5, Stderr: "insufficient free space"}}
	ctrl := newFakeController(nil)
	o := newTestOrchestrator(creator, ctrl)

	name, err := o.Execute(context.Background(), source, nil, "/dst", 4242)
	require.Error(t, err)
	assert.Equal(t, "insufficient free space", err.Error())
	assert.Empty(t, ctrl.calls)
	// nothing was created, so there is no name to audit
	assert.Empty(t, name)
}

func TestExecuteUnwindFailureDoesNotMaskOriginal(t *testing.T) {
	ctrl := newFakeController(map[string]error{
		"move":   &runner.ExitError{Code: 32, Stderr: "move failed"},
		"umount": &runner.ExitError{Code: 32, Stderr: "target is busy"},
	})
	o := newTestOrchestrator(&fakeCreator{}, ctrl)

	_, err := o.Execute(context.Background(), source, nil, "/dst", 4242)
	require.Error(t, err)
	assert.Equal(t, "move failed", err.Error())
}

func TestExecuteNoBonusTag(t *testing.T) {
	creator := &fakeCreator{}
	cfg := testConfig
	cfg.SnapshotTag = ""
	staging := &Staging{Stage: "/s", Inner: "/s/inner"}
	o := NewOrchestrator(creator, newFakeController(nil), staging, cfg)

	_, err := o.Execute(context.Background(), source, []string{"a", "a"}, "/dst", 1)
	require.NoError(t, err)
	// duplicates are kept as-is, no bonus tag appended
	assert.Equal(t, []string{"friend:cache:a", "friend:cache:a"}, creator.tags)
}

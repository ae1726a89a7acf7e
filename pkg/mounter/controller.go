package mounter

import (
	"context"
	"strconv"

	"github.com/snapfriend/snapfriend/pkg/runner"
)

// Controller performs mount operations, either in the daemon's own mount
// namespace or scoped to the mount namespace of a target process. Every
// operation is a single synchronous external invocation; non-zero exit is
// the sole failure signal and stderr is captured for diagnostics.
type Controller interface {
	// Bind bind-mounts source onto target in our own namespace.
	Bind(ctx context.Context, source, target string) error

	// Mount mounts a block device onto target in our own namespace,
	// passing options to mount -o when non-empty.
	Mount(ctx context.Context, device, target, options string) error

	// MakePrivate detaches mount propagation for target within the mount
	// namespace of process pid.
	MakePrivate(ctx context.Context, pid int, target string) error

	// Move moves the mount at source to dest within the mount namespace
	// of process pid.
	Move(ctx context.Context, pid int, source, dest string) error

	// Unmount unmounts target in our own namespace.
	Unmount(ctx context.Context, target string) error

	// UnmountIn unmounts target within the mount namespace of process pid.
	UnmountIn(ctx context.Context, pid int, target string) error
}

// ExecController shells out to mount(8) and umount(8).
type ExecController struct {
	runner runner.Runner
}

// NewExecController creates a mount controller backed by the mount command
func NewExecController(r runner.Runner) *ExecController {
	return &ExecController{runner: r}
}

func (c *ExecController) Bind(ctx context.Context, source, target string) error {
	_, err := c.runner.Run(ctx, "mount", "--bind", source, target)
	return err
}

func (c *ExecController) Mount(ctx context.Context, device, target, options string) error {
	argv := []string{"mount"}
	if options != "" {
		argv = append(argv, "-o", options)
	}
	argv = append(argv, device, target)
	_, err := c.runner.Run(ctx, argv...)
	return err
}

func (c *ExecController) MakePrivate(ctx context.Context, pid int, target string) error {
	_, err := c.runner.Run(ctx, "mount", "--namespace", strconv.Itoa(pid), "--make-private", target)
	return err
}

func (c *ExecController) Move(ctx context.Context, pid int, source, dest string) error {
	_, err := c.runner.Run(ctx, "mount", "--namespace", strconv.Itoa(pid), "--move", source, dest)
	return err
}

func (c *ExecController) Unmount(ctx context.Context, target string) error {
	_, err := c.runner.Run(ctx, "umount", target)
	return err
}

func (c *ExecController) UnmountIn(ctx context.Context, pid int, target string) error {
	_, err := c.runner.Run(ctx, "umount", "--namespace", strconv.Itoa(pid), target)
	return err
}

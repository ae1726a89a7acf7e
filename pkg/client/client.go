package client

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// Client speaks the snapfriend text protocol over the daemon's unix socket.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the daemon socket
func Dial(socketPath string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", socketPath, err)
	}

	return &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// Close closes the connection without a farewell.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Mount sends one mount record and returns the daemon's response line: the
// "<group> <name>" of the snapshot source on success, or the failing step's
// diagnostic text. The protocol carries no status code, so the caller must
// judge the text (or the filesystem) itself.
func (c *Client) Mount(destination string, findGroups [][]string, addTags []string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "mount %s\n", destination)
	for _, group := range findGroups {
		fmt.Fprintf(&b, "> %s\n", strings.Join(group, " "))
	}
	if len(addTags) > 0 {
		fmt.Fprintf(&b, "< %s\n", strings.Join(addTags, " "))
	}
	b.WriteString("\n")

	if _, err := io.WriteString(c.conn, b.String()); err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Bye sends the farewell and waits for the server's goodbye, which signals
// that all requested mounts have been handled.
func (c *Client) Bye() error {
	if _, err := io.WriteString(c.conn, "bye\n"); err != nil {
		return err
	}
	if _, err := c.reader.ReadString('\n'); err != nil && err != io.EOF {
		return err
	}
	return nil
}

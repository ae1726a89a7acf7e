package client

import (
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/snapfriend/snapfriend/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer accepts one connection and answers every request with a fixed
// line using the real protocol session.
func stubServer(t *testing.T, response string) (string, chan *protocol.Request) {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "socket")
	listener, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	requests := make(chan *protocol.Request, 8)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		session := protocol.NewSession(conn)
		for {
			req, err := session.Next()
			if err != nil {
				return
			}
			requests <- req
			_ = session.Reply(response)
		}
	}()

	return socket, requests
}

func TestMountRoundTrip(t *testing.T) {
	socket, requests := stubServer(t, "pool base")

	c, err := Dial(socket, time.Second)
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.Mount("/some/place", [][]string{{"app", "hash"}, {"app"}}, []string{"app", "hash"})
	require.NoError(t, err)
	assert.Equal(t, "pool base", resp)

	req := <-requests
	assert.Equal(t, "/some/place", req.Destination)
	assert.Equal(t, [][]string{{"app", "hash"}, {"app"}}, req.FindTagGroups)
	assert.Equal(t, []string{"app", "hash"}, req.AddTags)

	require.NoError(t, c.Bye())
}

func TestMountWithoutTags(t *testing.T) {
	socket, requests := stubServer(t, "pool base")

	c, err := Dial(socket, time.Second)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Mount("/x", nil, nil)
	require.NoError(t, err)

	req := <-requests
	assert.Empty(t, req.FindTagGroups)
	assert.Empty(t, req.AddTags)
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(filepath.Join(t.TempDir(), "absent"), 100*time.Millisecond)
	assert.Error(t, err)
}

func TestServerClosesEarly(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "socket")
	listener, err := net.Listen("unix", socket)
	require.NoError(t, err)
	defer listener.Close()

	// consume the request, then hang up without replying
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 256)
		_, _ = conn.Read(buf)
		conn.Close()
	}()

	c, err := Dial(socket, time.Second)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Mount("/x", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
}

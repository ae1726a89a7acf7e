package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Request is one parsed mount request from a client connection.
type Request struct {
	// Destination is the path in the peer's mount namespace where the
	// snapshot should be delivered.
	Destination string

	// AddTags is the union of all `<` lines, in order, duplicates kept.
	// These tags are applied to the snapshot created for this request.
	AddTags []string

	// FindTagGroups holds one tag group per `>` line, in order. Groups
	// are tried in order against the catalog; the first match wins.
	FindTagGroups [][]string
}

// UnexpectedInputError reports a top-level line that is neither a mount
// request nor a farewell. It ends the session but not the daemon.
type UnexpectedInputError struct {
	Line string
}

func (e *UnexpectedInputError) Error() string {
	return fmt.Sprintf("unexpected `%s`", e.Line)
}

// Session reads mount requests off one connection and writes responses back
// on the same stream. Sessions are single-pass: once Next returns io.EOF or
// an error the connection is done.
type Session struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSession creates a session over a bidirectional line-oriented stream
func NewSession(rw io.ReadWriter) *Session {
	return &Session{
		reader: bufio.NewReader(rw),
		writer: rw,
	}
}

// Next parses the next mount request from the stream.
//
// It returns io.EOF on a clean end: end of stream, a blank top-level line,
// or a `bye` line (after writing the farewell). A top-level line that is
// neither `mount` nor `bye` is echoed back and returned as
// *UnexpectedInputError, which also ends the session. Transport errors are
// returned as-is.
func (s *Session) Next() (*Request, error) {
	line, err := s.readLine()
	if err != nil && err != io.EOF {
		return nil, err
	}
	if line == "" {
		// blank top-level line or end of stream
		return nil, io.EOF
	}

	if dst, ok := dropPrefix(line, "mount"); ok {
		return s.readRecord(dst)
	}

	if reason, ok := dropPrefix(line, "bye"); ok {
		if reason != "" {
			_ = s.Reply("glhf " + reason)
		} else {
			_ = s.Reply("glhf")
		}
		return nil, io.EOF
	}

	if err := s.Reply(fmt.Sprintf("unexpected `%s`", line)); err != nil {
		return nil, err
	}
	return nil, &UnexpectedInputError{Line: line}
}

// readRecord consumes the `<`/`>` lines of one mount record up to a blank
// line or end of stream.
func (s *Session) readRecord(dst string) (*Request, error) {
	req := &Request{Destination: dst}

	for {
		line, err := s.readLine()
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line == "" {
			// blank line or EOF ends the record; the request itself
			// is complete either way
			return req, nil
		}

		if rest, ok := dropPrefix(line, "<"); ok {
			req.AddTags = append(req.AddTags, strings.Fields(rest)...)
		} else if rest, ok := dropPrefix(line, ">"); ok {
			// A bare `>` contributes an empty group, which matches
			// the most recent volume unconditionally.
			req.FindTagGroups = append(req.FindTagGroups, strings.Fields(rest))
		} else {
			// Recoverable: complain and keep reading the record.
			if err := s.Reply(fmt.Sprintf("ignoring unexpected `%s`", line)); err != nil {
				return nil, err
			}
		}

		if err == io.EOF {
			return req, nil
		}
	}
}

// Reply writes one response line back to the client.
func (s *Session) Reply(line string) error {
	_, err := fmt.Fprintln(s.writer, line)
	return err
}

// readLine reads one line and strips surrounding whitespace. A final line
// without a trailing newline is returned together with io.EOF.
func (s *Session) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if err == io.EOF && line != "" {
			return line, io.EOF
		}
		return "", err
	}
	return line, nil
}

// dropPrefix strips the keyword prefix and trims the remainder.
func dropPrefix(line, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

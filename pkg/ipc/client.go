package ipc

import (
	"bufio"
	"encoding/json"
	"net"
	"strings"
	"time"

	"github.com/barline/barline/pkg/errors"
)

// Client sends one-shot commands to a running daemon: dial, write one
// request line, read one response line, close.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the given socket path; an empty path uses
// the default per-user path.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath()
	}
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

// Do sends a request and decodes the response.
func (c *Client) Do(req Request) (Response, error) {
	raw, err := c.DoRaw(req)
	if err != nil {
		return Response{}, err
	}
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return Response{}, errors.Wrap(errors.ErrCodeProtocol, err, "invalid response")
	}
	return resp, nil
}

// DoRaw sends a request and returns the raw response line, trailing
// newline stripped. The CLI prints this verbatim.
func (c *Client) DoRaw(req Request) (string, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "cannot connect to daemon")
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	payload, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "cannot encode request")
	}
	payload = append(payload, '\n')
	if _, err := conn.Write(payload); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write failed")
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "read failed")
	}
	return strings.TrimRight(line, "\n"), nil
}

// Package client implements the controller side of the band protocol: one
// connection, one command per write, one newline-terminated reply per
// read.
package client

import (
	"bufio"
	"fmt"
	"net"
	"strings"

	"github.com/csm10495/deskband/pkg/protocol"
)

// Client is one controller connection to the daemon.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the daemon's control socket.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", socketPath, err)
	}
	return &Client{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, protocol.BufferSize),
	}, nil
}

// Send joins tokens with the delimiter, writes the command and reads the
// single reply line.
func (c *Client) Send(tokens ...string) (status string, fields []string, err error) {
	command := strings.Join(tokens, protocol.Delimiter)
	if _, err := c.conn.Write([]byte(command)); err != nil {
		return "", nil, fmt.Errorf("failed to send %q: %w", command, err)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", nil, fmt.Errorf("failed to read reply for %q: %w", command, err)
	}
	status, fields = protocol.ParseReply(line)
	return status, fields, nil
}

// SendOK sends a command and errors unless the reply status is OK.
func (c *Client) SendOK(tokens ...string) error {
	status, _, err := c.Send(tokens...)
	if err != nil {
		return err
	}
	if status != protocol.StatusOK {
		return fmt.Errorf("daemon replied %s to %q", status, strings.Join(tokens, protocol.Delimiter))
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

package client

import (
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csm10495/deskband/pkg/protocol"
)

// fakeDaemon accepts one connection and answers every request with a
// canned reply keyed by the raw request line.
func fakeDaemon(t *testing.T, replies map[string]string) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "fake.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, protocol.BufferSize)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			reply, ok := replies[string(buf[:n])]
			if !ok {
				reply = "BadCommand,\n"
			}
			if _, err := conn.Write([]byte(reply)); err != nil {
				return
			}
		}
	}()
	return socketPath
}

func TestSendJoinsTokensAndParsesReply(t *testing.T) {
	socketPath := fakeDaemon(t, map[string]string{
		"GET,RGB": "OK,255,0,0,\n",
	})
	c, err := Dial(socketPath)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer c.Close()

	status, fields, err := c.Send("GET", "RGB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != protocol.StatusOK {
		t.Fatalf("expected OK, got %s", status)
	}
	if strings.Join(fields, ",") != "255,0,0" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestSendOK(t *testing.T) {
	socketPath := fakeDaemon(t, map[string]string{
		"NEW":     "OK,\n",
		"GET,RGB": "TextInfoTargetInvalid,\n",
	})
	c, err := Dial(socketPath)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer c.Close()

	if err := c.SendOK("NEW"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = c.SendOK("GET", "RGB")
	if err == nil {
		t.Fatalf("expected error for non-OK status")
	}
	if !strings.Contains(err.Error(), protocol.StatusTargetInvalid) {
		t.Fatalf("error should name the status: %v", err)
	}
}

func TestDialFailure(t *testing.T) {
	if _, err := Dial(filepath.Join(t.TempDir(), "missing.sock")); err == nil {
		t.Fatalf("expected dial failure")
	}
}

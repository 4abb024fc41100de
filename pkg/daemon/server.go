// Package daemon owns the control endpoint: a unix-socket listener that
// serves one controller connection at a time and feeds each request to the
// command dispatcher.
package daemon

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/csm10495/deskband/pkg/protocol"
)

// Server runs the read → dispatch → write loop for the control socket.
// Exactly one connection is served at a time; while not stopped, losing
// the peer returns the server to accepting. All dispatching happens on the
// serve goroutine — concurrent readers of the shared state go through the
// store's own locks, not through the server.
type Server struct {
	socketPath string
	pidPath    string

	// OnRequest handles one raw request and returns the serialized reply.
	OnRequest func(request string) string

	mu       sync.Mutex
	listener net.Listener
	conn     net.Conn

	stopping atomic.Bool
	done     chan struct{}
}

// NewServer creates a server for the given socket and pidfile paths.
func NewServer(socketPath, pidPath string) *Server {
	return &Server{
		socketPath: socketPath,
		pidPath:    pidPath,
		done:       make(chan struct{}),
	}
}

// Start claims the pidfile, binds the socket and launches the serve loop.
// A failure here is fatal to the caller; nothing is retried.
func (s *Server) Start() error {
	if err := s.checkAndClaimPid(); err != nil {
		return err
	}

	// Remove stale socket if exists (safe now that we own the pidfile)
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		os.Remove(s.pidPath) // Clean up pidfile on failure
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go s.serveLoop()

	return nil
}

// checkAndClaimPid checks for an existing daemon and claims the pidfile.
func (s *Server) checkAndClaimPid() error {
	if data, err := os.ReadFile(s.pidPath); err == nil {
		pidStr := strings.TrimSpace(string(data))
		if pid, err := strconv.Atoi(pidStr); err == nil && pid > 0 {
			if process, err := os.FindProcess(pid); err == nil {
				// On Unix, FindProcess always succeeds, so send signal 0
				if err := process.Signal(syscall.Signal(0)); err == nil {
					return fmt.Errorf("daemon already running with pid %d", pid)
				}
			}
		}
		// Stale pidfile, remove it
		os.Remove(s.pidPath)
	}

	pid := os.Getpid()
	if err := os.WriteFile(s.pidPath, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("failed to write pidfile: %w", err)
	}

	return nil
}

// Stop sets the stop flag and closes the listener and any live connection,
// unblocking a serve loop parked in Accept or Read. Stopping is terminal:
// the server never accepts again.
func (s *Server) Stop() {
	s.RequestStop()
	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.Unlock()
}

// RequestStop sets the stop flag only. The serve loop observes it after
// the in-flight reply is written; the STOP verb routes here so its OK
// still reaches the controller before teardown.
func (s *Server) RequestStop() {
	s.stopping.Store(true)
}

// Stopping reports the stop flag, for host teardown sequencing.
func (s *Server) Stopping() bool {
	return s.stopping.Load()
}

// Done is closed once the serve loop has torn down the endpoint.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// SocketPath returns the control socket path.
func (s *Server) SocketPath() string {
	return s.socketPath
}

func (s *Server) serveLoop() {
	defer func() {
		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Unlock()
		os.Remove(s.socketPath)
		os.Remove(s.pidPath)
		close(s.done)
	}()

	for !s.stopping.Load() {
		s.mu.Lock()
		listener := s.listener
		s.mu.Unlock()
		if listener == nil {
			return
		}

		conn, err := listener.Accept()
		if err != nil {
			if s.stopping.Load() {
				return
			}
			continue
		}

		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()

		s.serveConn(conn)

		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
		conn.Close()
	}
}

// serveConn loops read → dispatch → write until the peer disconnects or
// the stop flag is observed. A read or write failure only ends this
// connection; the stop flag is untouched.
func (s *Server) serveConn(conn net.Conn) {
	buf := make([]byte, protocol.BufferSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		request := strings.TrimRight(string(buf[:n]), "\r\n")

		reply := s.handle(request)
		if _, err := conn.Write([]byte(reply)); err != nil {
			return
		}

		if s.stopping.Load() {
			return
		}
	}
}

func (s *Server) handle(request string) string {
	if s.OnRequest == nil {
		return protocol.NewResponse().Serialize()
	}
	return s.OnRequest(request)
}

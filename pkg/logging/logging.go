// Package logging is the daemon's gated protocol log: an append-only file
// sink that starts disabled and is toggled only by SET LOGGING_ENABLED.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

var (
	enabled atomic.Bool
	mu      sync.Mutex
	path    = filepath.Join(os.TempDir(), "deskband.log")
)

// SetEnabled flips the process-wide gate.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports the gate.
func Enabled() bool {
	return enabled.Load()
}

// SetPath redirects the sink. Called from startup configuration and tests.
func SetPath(p string) {
	mu.Lock()
	path = p
	mu.Unlock()
}

// Logf appends one timestamped line when the gate is open. The file is
// opened per write so a disabled sink never holds a handle.
func Logf(format string, args ...interface{}) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

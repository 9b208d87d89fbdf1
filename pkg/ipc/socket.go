package ipc

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSocketPath returns the deterministic per-user socket path,
// derived from the user id and the system temp directory so every client
// of the same user finds the same daemon.
func DefaultSocketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("barline_%d.sock", os.Getuid()))
}

package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"path/filepath"
)

// ErrAlreadyRunning indicates another process already owns the data directory.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceGuard proves this process is the only one driving a data
// directory, so one timer state never has two writers.
type InstanceGuard struct {
	listener net.Listener
	address  string
}

// AcquireSingleInstance binds a localhost port derived from dataDir.
func AcquireSingleInstance(dataDir string) (*InstanceGuard, error) {
	address := fmt.Sprintf("127.0.0.1:%d", portForDir(dataDir))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, dataDir)
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Release frees the guard.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func portForDir(dataDir string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	cleaned := filepath.Clean(dataDir)
	if absolute, err := filepath.Abs(cleaned); err == nil {
		cleaned = absolute
	}
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(cleaned))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}

// Package storage provides durable key-value slots for the task store.
//
// A slot holds one opaque value per key. Three backends are available:
//
//   - file: one JSON file per key under a data directory
//   - mysql: rows in a kv_slots table
//   - memory: a process-wide map, shared by every store in the process
package storage

import (
	"context"
	"fmt"

	"github.com/nibzard/todolist-go/internal/utils"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// Slot is a durable key-value store holding one value per key.
type Slot interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, data []byte) error
	// Close releases backend resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	DataDir  string
	MySQLDSN string
}

// Open returns the slot for opts.Backend. An empty backend selects file.
func Open(ctx context.Context, opts Options) (Slot, error) {
	switch utils.NormalizeName(opts.Backend) {
	case "", BackendFile:
		return NewFileSlot(opts.DataDir)
	case BackendMySQL:
		return OpenMySQLSlot(ctx, opts.MySQLDSN)
	case BackendMemory:
		return Shared(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected file, mysql, or memory)", opts.Backend)
	}
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSlot stores each key as <dir>/<key>.json.
type FileSlot struct {
	Dir string
}

// NewFileSlot returns a slot rooted at dir. The directory is created on
// first write.
func NewFileSlot(dir string) (*FileSlot, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data dir is empty")
	}
	return &FileSlot{Dir: filepath.Clean(dir)}, nil
}

// Path returns the file backing key. Get and Set refuse keys that fail
// checkKey, so distinct keys never share a file.
func (f *FileSlot) Path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

// Get reads the file for key. A missing file reports ok=false.
func (f *FileSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot file: %w", err)
	}
	return data, true, nil
}

// Set writes data to a temporary file and renames it over the slot file,
// so readers never observe a partial write.
func (f *FileSlot) Set(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	path := f.Path(key)
	tmp, err := os.CreateTemp(f.Dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod slot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace slot file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (f *FileSlot) Close() error {
	return nil
}

// checkKey rejects keys that are not plain file names. Keys map to files
// one to one, so nothing is rewritten: letters, digits, '.', '_' and '-'
// only, and no leading dot.
func checkKey(key string) error {
	if key == "" {
		return errors.New("slot key is empty")
	}
	if key[0] == '.' {
		return fmt.Errorf("invalid slot key %q: must not start with '.'", key)
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			return fmt.Errorf("invalid slot key %q: only letters, digits, '.', '_' and '-' are allowed", key)
		}
	}
	return nil
}

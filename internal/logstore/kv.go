package logstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// KeyValue is the durable backend the store persists its collection into.
type KeyValue interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// FileKV keeps one file per key under dir. Writes go to a temp file that is
// renamed over the target, so readers see either the old or the new value.
type FileKV struct {
	dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("file kv: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file kv: create directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

func (kv *FileKV) path(key string) string {
	return filepath.Join(kv.dir, key+".json")
}

func (kv *FileKV) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(kv.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (kv *FileKV) Set(key string, value []byte) error {
	temp, err := os.CreateTemp(kv.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath)

	if _, err := temp.Write(value); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}
	return os.Rename(tempPath, kv.path(key))
}

// MemoryKV is an in-process backend for tests and dry runs. SetErr makes
// every following Set fail until cleared.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
	setErr error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

func (kv *MemoryKV) Get(key string) ([]byte, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	value, ok := kv.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (kv *MemoryKV) Set(key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.setErr != nil {
		return kv.setErr
	}
	kv.values[key] = append([]byte(nil), value...)
	return nil
}

func (kv *MemoryKV) SetErr(err error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.setErr = err
}

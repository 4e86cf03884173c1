package favorites

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
)

// Storage is a durable string key/value store, shaped like browser local storage.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) ([]byte, bool, error)

	// Set replaces the value for key.
	Set(key string, value []byte) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBolt   = "bolt"
)

// Open returns the storage backend named by backend, rooted at path.
// The memory backend ignores path.
func Open(backend, path string) (Storage, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStorage(), nil
	case "", BackendFile:
		return NewFileStorage(path), nil
	case BackendBolt:
		return OpenBolt(path)
	default:
		return nil, errors.NewConfigError("favorites", "unknown storage backend "+backend, nil)
	}
}

// Close releases s if it holds resources.
func Close(s Storage) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

// Get implements Storage.
func (m *MemoryStorage) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements Storage.
func (m *MemoryStorage) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// FileStorage persists all keys as one JSON object of string values.
// Writes go to a temp file in the same directory and are renamed into place.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage returns a FileStorage backed by path. The file is created on first Set.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the backing file path.
func (f *FileStorage) Path() string {
	return f.path
}

// Get implements Storage.
func (f *FileStorage) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := values[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Set implements Storage.
func (f *FileStorage) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	switch {
	case errors.IsStorageParseError(err):
		// Malformed content is overwritten.
		values = map[string]string{}
	case err != nil:
		return err
	}
	values[key] = string(value)

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.WrapIO("encode", f.path, err)
	}
	return f.write(data)
}

func (f *FileStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", f.path, err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, &errors.StorageParseError{Key: f.path, Err: err}
	}
	return values, nil
}

func (f *FileStorage) write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".carmap-*.tmp")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpName, err)
	}
	if err := os.Chmod(tmpName, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.WrapIO("rename", f.path, err)
	}
	return nil
}

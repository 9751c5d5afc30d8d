package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"cptrack/internal/providers"
	"cptrack/internal/structures"
)

// Well-known record names. Each record is one compressed JSON file
// under the store directory.
const (
	HandlesFile  = "handles.zst"
	SnapshotFile = "snapshot.zst"
)

// StoreInterface is the local key-value persistence used by the
// identity and snapshot services. Values are JSON, zstd-compressed at
// rest — a reversible encoding, not a security measure.
type StoreInterface interface {
	Save(name string, v any) error
	Load(name string, v any) (bool, error)
}

type FileStore struct {
	mu         sync.Mutex
	dir        string
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileStore(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) (StoreInterface, error) {
	if err := os.MkdirAll(conf.Store.Dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create store dir %s: %w", conf.Store.Dir, err)
	}
	return &FileStore{
		dir:        conf.Store.Dir,
		compressor: compressor,
		logger:     logger,
	}, nil
}

// Save atomically replaces the named record: write to a temp file,
// fsync, rename.
func (fs *FileStore) Save(name string, v any) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := fs.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	path := filepath.Join(fs.dir, name)
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}

// Load reads the named record into v. A missing file is not an error;
// it reports absence via the bool.
func (fs *FileStore) Load(name string, v any) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path := filepath.Join(fs.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	decompressed, err := fs.compressor.Decompress(data)
	if err != nil {
		return false, fmt.Errorf("unable to decode store file %s: %w", path, err)
	}

	if err := json.Unmarshal(decompressed, v); err != nil {
		return false, fmt.Errorf("unable to parse store file %s: %w", path, err)
	}
	return true, nil
}

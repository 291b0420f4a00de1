package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/username/attendance-planner/internal/ledger"
	"go.uber.org/zap"
)

// StorageError reports a persistence I/O failure on load or save
type StorageError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// FileStore persists the ledger as a single JSON document mapping
// YYYY-MM-DD date strings to status strings. The whole document is
// replaced on every save.
type FileStore struct {
	filePath     string
	allowMissing bool
	logger       *zap.Logger
}

// NewFileStore creates a file store. When allowMissing is set, loading
// a nonexistent file yields an empty ledger instead of an error.
func NewFileStore(filePath string, allowMissing bool, logger *zap.Logger) *FileStore {
	return &FileStore{
		filePath:     filePath,
		allowMissing: allowMissing,
		logger:       logger,
	}
}

// LoadAll reads the persisted mapping
func (fs *FileStore) LoadAll() (map[string]ledger.Status, error) {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) && fs.allowMissing {
			fs.logger.Info("Data file not found, starting empty",
				zap.String("file", fs.filePath))
			return make(map[string]ledger.Status), nil
		}
		return nil, &StorageError{Op: "load", Path: fs.filePath, Err: err}
	}

	var days map[string]ledger.Status
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, &StorageError{Op: "load", Path: fs.filePath, Err: err}
	}
	if days == nil {
		days = make(map[string]ledger.Status)
	}

	fs.logger.Info("Data file loaded",
		zap.String("file", fs.filePath),
		zap.Int("marked_days", len(days)))

	return days, nil
}

// SaveAll replaces the persisted mapping. The document is written to a
// temp file in the same directory and renamed over the target so a
// reader never observes a partially written state.
func (fs *FileStore) SaveAll(days map[string]ledger.Status) error {
	data, err := json.MarshalIndent(days, "", "  ")
	if err != nil {
		return &StorageError{Op: "save", Path: fs.filePath, Err: err}
	}

	dir := filepath.Dir(fs.filePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(fs.filePath)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "save", Path: fs.filePath, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: fs.filePath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: fs.filePath, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: fs.filePath, Err: err}
	}
	if err := os.Rename(tmpName, fs.filePath); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: fs.filePath, Err: err}
	}

	fs.logger.Debug("Data file saved",
		zap.String("file", fs.filePath),
		zap.Int("marked_days", len(days)))

	return nil
}

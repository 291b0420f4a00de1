package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/username/attendance-planner/internal/ledger"
	"go.uber.org/zap"
)

func testStore(t *testing.T, allowMissing bool) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attendance_data.json")
	return NewFileStore(path, allowMissing, zap.NewNop()), path
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, _ := testStore(t, true)

	days := map[string]ledger.Status{
		"2024-06-03": ledger.StatusInOffice,
		"2024-06-04": ledger.StatusOutOfOffice,
		"2024-06-10": ledger.StatusInOffice,
	}

	if err := store.SaveAll(days); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	if !reflect.DeepEqual(loaded, days) {
		t.Errorf("LoadAll() = %v, want %v", loaded, days)
	}
}

func TestFileStore_SaveLoadSaveIsStable(t *testing.T) {
	// saveAll(loadAll()) leaves the decoded content unchanged
	store, _ := testStore(t, true)

	days := map[string]ledger.Status{
		"2024-06-03": ledger.StatusInOffice,
		"2024-06-04": ledger.StatusOutOfOffice,
	}
	if err := store.SaveAll(days); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if err := store.SaveAll(loaded); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	reloaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if !reflect.DeepEqual(reloaded, days) {
		t.Errorf("round trip changed content: %v, want %v", reloaded, days)
	}
}

func TestFileStore_PersistedFormat(t *testing.T) {
	store, path := testStore(t, true)

	days := map[string]ledger.Status{
		"2024-06-03": ledger.StatusInOffice,
		"2024-06-04": ledger.StatusOutOfOffice,
	}
	if err := store.SaveAll(days); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("persisted file is not a string mapping: %v", err)
	}

	want := map[string]string{
		"2024-06-03": "in_office",
		"2024-06-04": "ooo",
	}
	if !reflect.DeepEqual(raw, want) {
		t.Errorf("persisted document = %v, want %v", raw, want)
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	t.Run("Tolerated", func(t *testing.T) {
		store, _ := testStore(t, true)

		loaded, err := store.LoadAll()
		if err != nil {
			t.Fatalf("LoadAll() error = %v, want empty ledger", err)
		}
		if len(loaded) != 0 {
			t.Errorf("LoadAll() = %v, want empty map", loaded)
		}
	})

	t.Run("Surfaced", func(t *testing.T) {
		store, _ := testStore(t, false)

		_, err := store.LoadAll()
		var storageErr *StorageError
		if !errors.As(err, &storageErr) {
			t.Fatalf("LoadAll() error = %v, want *StorageError", err)
		}
		if storageErr.Op != "load" {
			t.Errorf("StorageError.Op = %q, want load", storageErr.Op)
		}
		if !os.IsNotExist(errors.Unwrap(storageErr)) {
			t.Errorf("StorageError wraps %v, want not-exist error", errors.Unwrap(storageErr))
		}
	})
}

func TestFileStore_CorruptFile(t *testing.T) {
	store, path := testStore(t, true)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := store.LoadAll()
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("LoadAll() error = %v, want *StorageError", err)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store, _ := testStore(t, true)

	first := map[string]ledger.Status{
		"2024-06-03": ledger.StatusInOffice,
		"2024-06-04": ledger.StatusInOffice,
	}
	if err := store.SaveAll(first); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	// Full-document overwrite: removed keys disappear
	second := map[string]ledger.Status{
		"2024-06-05": ledger.StatusOutOfOffice,
	}
	if err := store.SaveAll(second); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, second) {
		t.Errorf("LoadAll() = %v, want %v", loaded, second)
	}
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	store, path := testStore(t, true)

	if err := store.SaveAll(map[string]ledger.Status{"2024-06-03": ledger.StatusInOffice}); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("data dir has %d entries %v, want only the data file", len(entries), names)
	}
}

func TestFileStore_SaveFailureSurfaces(t *testing.T) {
	dir := t.TempDir()
	// Target path's directory does not exist
	store := NewFileStore(filepath.Join(dir, "missing", "data.json"), true, zap.NewNop())

	err := store.SaveAll(map[string]ledger.Status{"2024-06-03": ledger.StatusInOffice})
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("SaveAll() error = %v, want *StorageError", err)
	}
	if storageErr.Op != "save" {
		t.Errorf("StorageError.Op = %q, want save", storageErr.Op)
	}
}

func TestFileStore_EmptyLedger(t *testing.T) {
	store, _ := testStore(t, true)

	if err := store.SaveAll(map[string]ledger.Status{}); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("LoadAll() = %v, want empty map", loaded)
	}
}

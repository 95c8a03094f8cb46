package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"inspirehome-sync/internal/domain"
)

var (
	ErrLocked = errors.New("another sync run appears to be in progress")
)

// Store owns the three files the pipeline persists: the catalog, the sync
// state, and the history log. Reads tolerate missing files (empty baseline);
// writes are staged to temp siblings and renamed so a failed run never
// leaves partial state behind.
type Store struct {
	catalogPath string
	statePath   string
	historyPath string
}

// NewStore creates a Store over the given file paths.
func NewStore(catalogPath, statePath, historyPath string) *Store {
	return &Store{
		catalogPath: catalogPath,
		statePath:   statePath,
		historyPath: historyPath,
	}
}

// LoadState returns the previous run's state, or the empty baseline when no
// state file exists yet.
func (s *Store) LoadState() (domain.SyncState, error) {
	var state domain.SyncState
	ok, err := s.readJSON(s.statePath, &state)
	if err != nil {
		return state, fmt.Errorf("failed to load sync state: %w", err)
	}
	if !ok {
		return domain.EmptySyncState(), nil
	}
	if state.ProductHash == nil {
		state.ProductHash = map[string]string{}
	}
	return state, nil
}

// LoadHistory returns the history log, newest first. A missing file is an
// empty log.
func (s *Store) LoadHistory() ([]domain.HistoryEntry, error) {
	var history []domain.HistoryEntry
	ok, err := s.readJSON(s.historyPath, &history)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync history: %w", err)
	}
	if !ok {
		return []domain.HistoryEntry{}, nil
	}
	return history, nil
}

// LoadCatalog returns the current catalog file, or an empty list when no
// sync has run yet.
func (s *Store) LoadCatalog() ([]domain.Product, error) {
	var products []domain.Product
	ok, err := s.readJSON(s.catalogPath, &products)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if !ok {
		return []domain.Product{}, nil
	}
	return products, nil
}

// Persist writes the catalog, the sync state, and the history log (with the
// new entry prepended and the log truncated) in one staged operation: every
// file is written to a temp sibling first, and only after all writes succeed
// are the temp files renamed into place.
func (s *Store) Persist(products []domain.Product, state domain.SyncState, entry domain.HistoryEntry) error {
	history, err := s.LoadHistory()
	if err != nil {
		return err
	}
	history = append([]domain.HistoryEntry{entry}, history...)
	if len(history) > domain.MaxHistoryEntries {
		history = history[:domain.MaxHistoryEntries]
	}

	files := []struct {
		path string
		data interface{}
	}{
		{s.catalogPath, products},
		{s.statePath, state},
		{s.historyPath, history},
	}

	staged := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}

	for _, f := range files {
		tmp, err := writeTemp(f.path, f.data)
		if err != nil {
			cleanup()
			return err
		}
		staged = append(staged, tmp)
	}

	for i, f := range files {
		if err := os.Rename(staged[i], f.path); err != nil {
			cleanup()
			return fmt.Errorf("failed to commit %s: %w", f.path, err)
		}
	}

	return nil
}

// Lock takes the run-exclusivity lock next to the state file. The scheduler
// is expected to prevent overlapping runs; this is a defensive backstop, and
// a stale lock after a crash must be removed by the operator.
func (s *Store) Lock() error {
	lockPath := s.lockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		return fmt.Errorf("failed to take run lock: %w", err)
	}
	defer f.Close()

	_, err = f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	if err != nil {
		os.Remove(lockPath)
		return fmt.Errorf("failed to write run lock: %w", err)
	}
	return nil
}

// Unlock releases the run-exclusivity lock.
func (s *Store) Unlock() error {
	return os.Remove(s.lockPath())
}

func (s *Store) lockPath() string {
	return s.statePath + ".lock"
}

// readJSON reports whether the file existed; absence is not an error.
func (s *Store) readJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func writeTemp(path string, v interface{}) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	return tmp, nil
}

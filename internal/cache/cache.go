package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

var (
	ErrNotFound = errors.New("cache entry not found")
	ErrInvalid  = errors.New("cache entry is empty")
)

const (
	defaultLockName   = ".lock"
	defaultLockWait   = 2 * time.Second
	lockRetryInterval = 25 * time.Millisecond
)

// Store is a flat directory of raw payloads, one file per key.
// Entries are replaced atomically (temp file + rename under a file lock);
// reads never take the lock.
type Store struct {
	dir      string
	lock     *flock.Flock
	lockWait time.Duration
}

type Entry struct {
	Key     string    `json:"key"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified_at"`
}

// Open returns a store rooted at dir. Nothing is created until the first write.
// An empty lockPath places the lock file inside dir.
func Open(dir, lockPath string) *Store {
	if strings.TrimSpace(lockPath) == "" {
		lockPath = filepath.Join(dir, defaultLockName)
	}
	return &Store{
		dir:      dir,
		lock:     flock.New(lockPath),
		lockWait: defaultLockWait,
	}
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file that backs key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *Store) Read(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("cache read: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%s: %w", key, ErrInvalid)
	}
	return buf, nil
}

func (s *Store) Write(key string, value []byte) error {
	staged, err := s.Stage(key, value)
	if err != nil {
		return err
	}
	if err := staged.Commit(); err != nil {
		staged.Discard()
		return err
	}
	return nil
}

// Stage persists value to a temporary file next to the entry for key without
// touching the current entry.
func (s *Store) Stage(key string, value []byte) (*Staged, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	f, err := os.CreateTemp(s.dir, "."+key+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(value); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("write staging file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("sync staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("close staging file: %w", err)
	}
	return &Staged{store: s, key: key, path: tmp}, nil
}

// List returns every entry in the directory, sorted by key.
func (s *Store) List() ([]Entry, error) {
	items, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("list cache: %w", err)
	}
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.IsDir() || strings.HasPrefix(item.Name(), ".") {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Key:     item.Name(),
			Path:    s.Path(item.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime().UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) replace(tmp, key string) error {
	if err := os.MkdirAll(filepath.Dir(s.lock.Path()), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.lockWait)
	defer cancel()
	locked, err := s.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock cache: timeout acquiring lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	if err := os.Rename(tmp, s.Path(key)); err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// Staged is a payload written to disk but not yet visible under its key.
type Staged struct {
	store *Store
	key   string
	path  string
	done  bool
}

func (st *Staged) Path() string {
	return st.path
}

// Commit atomically replaces the entry with the staged payload.
func (st *Staged) Commit() error {
	if st.done {
		return fmt.Errorf("staged entry %s already finalized", st.key)
	}
	if err := st.store.replace(st.path, st.key); err != nil {
		return err
	}
	st.done = true
	return nil
}

// Discard removes the staged payload. It is a no-op after Commit.
func (st *Staged) Discard() {
	if st.done {
		return
	}
	st.done = true
	_ = os.Remove(st.path)
}

func validateKey(key string) error {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid cache key %q", key)
	}
	return nil
}

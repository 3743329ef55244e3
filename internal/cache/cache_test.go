package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestStoreWriteThenRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	store := Open(dir, "")

	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected directory to be created lazily, stat err=%v", err)
	}
	if err := store.Write("networks.json", []byte(`[{"chainId":10}]`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := store.Read("networks.json")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != `[{"chainId":10}]` {
		t.Fatalf("unexpected payload: %s", got)
	}

	if err := store.Write("networks.json", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ = store.Read("networks.json")
	if string(got) != `[]` {
		t.Fatalf("expected overwrite in full, got %s", got)
	}
}

func TestStoreReadMissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	store := Open(dir, "")
	if _, err := store.Read("tokenlist.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tokenlist.json"), nil, 0o644); err != nil {
		t.Fatalf("seed empty file: %v", err)
	}
	if _, err := store.Read("tokenlist.json"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty entry, got %v", err)
	}
}

func TestStoreRejectsPathKeys(t *testing.T) {
	store := Open(t.TempDir(), "")
	for _, key := range []string{"", "../x", "a/b", ".lock"} {
		if err := store.Write(key, []byte("x")); err == nil {
			t.Fatalf("expected key %q to be rejected", key)
		}
	}
}

func TestStageDiscardKeepsPreviousEntry(t *testing.T) {
	store := Open(t.TempDir(), "")
	if err := store.Write("abi-core.mjs", []byte("old")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	staged, err := store.Stage("abi-core.mjs", []byte("new"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	buf, err := os.ReadFile(staged.Path())
	if err != nil || string(buf) != "new" {
		t.Fatalf("expected staged payload on disk, got %q err=%v", buf, err)
	}
	staged.Discard()
	if _, err := os.Stat(staged.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected staged file removed, stat err=%v", err)
	}
	got, _ := store.Read("abi-core.mjs")
	if string(got) != "old" {
		t.Fatalf("expected previous entry untouched, got %s", got)
	}
}

func TestStageCommitReplacesEntry(t *testing.T) {
	store := Open(t.TempDir(), "")
	staged, err := store.Stage("abi-main.mjs", []byte("export const a = 1"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if err := staged.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	staged.Discard()
	got, err := store.Read("abi-main.mjs")
	if err != nil || string(got) != "export const a = 1" {
		t.Fatalf("unexpected entry %q err=%v", got, err)
	}
	if err := staged.Commit(); err == nil {
		t.Fatal("expected second commit to fail")
	}
}

func TestStoreWriteFailsWhenDirectoryIsAFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "cache")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed blocker: %v", err)
	}
	store := Open(blocker, "")
	if err := store.Write("networks.json", []byte("[]")); err == nil {
		t.Fatal("expected write to fail when cache dir is a regular file")
	}
}

func TestStoreListSkipsHiddenFiles(t *testing.T) {
	store := Open(t.TempDir(), "")
	_ = store.Write("tokenlist.json", []byte(`{"tokens":[]}`))
	_ = store.Write("networks.json", []byte(`[]`))
	entries, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Key != "networks.json" || entries[1].Key != "tokenlist.json" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestStoreConcurrentWriters(t *testing.T) {
	dir := t.TempDir()
	const workers = 8
	const iterations = 20

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			store := Open(dir, "")
			for i := 0; i < iterations; i++ {
				payload := []byte(fmt.Sprintf(`{"worker":%d,"i":%d}`, workerID, i))
				if err := store.Write("networks.json", payload); err != nil {
					errCh <- fmt.Errorf("worker %d write iter %d: %w", workerID, i, err)
					return
				}
				if _, err := store.Read("networks.json"); err != nil {
					errCh <- fmt.Errorf("worker %d read iter %d: %w", workerID, i, err)
					return
				}
			}
		}(worker)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatal(err)
	}
}

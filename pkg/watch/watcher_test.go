package watch

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestNewWatcher(t *testing.T) {
	file := filepath.Join(t.TempDir(), "show.json")

	tests := []struct {
		name     string
		debounce time.Duration
		want     time.Duration
	}{
		{"default debounce", 0, DefaultDebounce},
		{"custom debounce", time.Second, time.Second},
		{"negative debounce defaults", -time.Second, DefaultDebounce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWatcher([]string{file}, WithDebounce(tt.debounce))
			if err != nil {
				t.Fatalf("NewWatcher() error = %v", err)
			}
			defer w.Stop()

			if w.debounce != tt.want {
				t.Errorf("debounce = %v, want %v", w.debounce, tt.want)
			}
			if files := w.Files(); len(files) != 1 || files[0] != file {
				t.Errorf("Files() = %v, want [%s]", files, file)
			}
		})
	}
}

func TestNewWatcherNoFiles(t *testing.T) {
	if _, err := NewWatcher(nil); err == nil {
		t.Error("NewWatcher(nil) should fail")
	}
}

func TestWatcher_SetCallback(t *testing.T) {
	w, err := NewWatcher([]string{filepath.Join(t.TempDir(), "show.json")})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if w.callback != nil {
		t.Error("callback should be nil initially")
	}
	w.SetCallback(func(string) {})
	if w.callback == nil {
		t.Error("callback should be set")
	}
}

func TestWatcher_handleEvent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "show.json")

	w, err := NewWatcher([]string{file})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	tests := []struct {
		name        string
		event       fsnotify.Event
		wantPending bool
	}{
		{"write to watched file", fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{"create of watched file", fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{"rename of watched file", fsnotify.Event{Name: file, Op: fsnotify.Rename}, true},
		{"remove ignored", fsnotify.Event{Name: file, Op: fsnotify.Remove}, false},
		{"chmod ignored", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, false},
		{"sibling file ignored", fsnotify.Event{Name: filepath.Join(dir, "other.json"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.mu.Lock()
			w.pending = make(map[string]time.Time)
			w.mu.Unlock()

			w.handleEvent(tt.event)

			w.mu.Lock()
			_, found := w.pending[file]
			w.mu.Unlock()

			if found != tt.wantPending {
				t.Errorf("pending = %v, want %v", found, tt.wantPending)
			}
		})
	}
}

func TestWatcher_processPending(t *testing.T) {
	file := filepath.Join(t.TempDir(), "show.json")
	writeFile(t, file, "{}")

	w, err := NewWatcher([]string{file}, WithDebounce(50*time.Millisecond), WithOutput(io.Discard))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	got := make(chan string, 1)
	w.SetCallback(func(path string) { got <- path })

	w.mu.Lock()
	w.pending[file] = time.Now().Add(-100 * time.Millisecond)
	w.mu.Unlock()

	w.processPending()

	select {
	case path := <-got:
		if path != file {
			t.Errorf("callback path = %v, want %v", path, file)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback not called")
	}

	w.mu.Lock()
	_, stillPending := w.pending[file]
	w.mu.Unlock()
	if stillPending {
		t.Error("file should be removed from pending after processing")
	}
}

func TestWatcher_processPending_NotReady(t *testing.T) {
	file := filepath.Join(t.TempDir(), "show.json")

	w, err := NewWatcher([]string{file}, WithDebounce(time.Hour))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	w.SetCallback(func(string) { t.Error("callback should not be called before the debounce period") })

	w.mu.Lock()
	w.pending[file] = time.Now()
	w.mu.Unlock()

	w.processPending()

	w.mu.Lock()
	_, stillPending := w.pending[file]
	w.mu.Unlock()
	if !stillPending {
		t.Error("file should still be in pending")
	}
}

func TestWatcher_processPending_NoCallback(t *testing.T) {
	file := filepath.Join(t.TempDir(), "show.json")

	w, err := NewWatcher([]string{file}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	w.mu.Lock()
	w.pending[file] = time.Now().Add(-100 * time.Millisecond)
	w.mu.Unlock()

	w.processPending()

	w.mu.Lock()
	n := len(w.pending)
	w.mu.Unlock()
	if n != 0 {
		t.Errorf("pending = %d entries, want 0", n)
	}
}

func TestWatcher_StartDetectsWrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "show.json")
	writeFile(t, file, `{"seasons": []}`)

	out := &syncBuffer{}
	w, err := NewWatcher([]string{file}, WithDebounce(50*time.Millisecond), WithOutput(out))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	got := make(chan string, 4)
	w.SetCallback(func(path string) { got <- path })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, file, `{"seasons": [{"episodes": []}]}`)

	select {
	case path := <-got:
		if path != file {
			t.Errorf("callback path = %v, want %v", path, file)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("write was not detected")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}
	if !bytes.Contains([]byte(out.String()), []byte("File changed: show.json")) {
		t.Errorf("output = %q, want change banner", out.String())
	}
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	svc := NewService(t.TempDir(), 1<<20, testLogger())

	tests := []struct {
		name     string
		filename string
		size     int64
		want     constants.MediaType
		wantErr  error
	}{
		{"text file", "fir.txt", 100, constants.MediaText, nil},
		{"uppercase extension", "SCAN.PDF", 100, constants.MediaImage, nil},
		{"audio file", "statement.mp3", 100, constants.MediaAudio, nil},
		{"unknown extension", "malware.exe", 100, "", common.ErrUnsupportedMedia},
		{"no extension", "README", 100, "", common.ErrUnsupportedMedia},
		{"empty file", "fir.txt", 0, "", common.ErrInvalidInput},
		{"oversized file", "fir.txt", 2 << 20, "", common.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			media, err := svc.Validate(tt.filename, tt.size)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if media != tt.want {
				t.Errorf("media = %s, want %s", media, tt.want)
			}
		})
	}
}

func TestSaveStoresAndHashes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svc := NewService(dir, 1<<20, testLogger())

	path, hash, err := svc.Save("fir copy.txt", strings.NewReader("The FIR narrates the incident."))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("stored outside upload dir: %s", path)
	}
	if !strings.HasSuffix(path, "_fir_copy.txt") {
		t.Errorf("sanitized name = %s", filepath.Base(path))
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want sha256 hex", len(hash))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "The FIR narrates the incident." {
		t.Errorf("stored content = %q", data)
	}
}

func TestSaveRejectsOversizedStream(t *testing.T) {
	t.Parallel()

	svc := NewService(t.TempDir(), 16, testLogger())
	_, _, err := svc.Save("big.txt", strings.NewReader(strings.Repeat("x", 64)))
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSaveRejectsEmptyStream(t *testing.T) {
	t.Parallel()

	svc := NewService(t.TempDir(), 1<<20, testLogger())
	if _, _, err := svc.Save("empty.txt", strings.NewReader("")); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"fir.txt", "fir.txt"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\boot.ini", "boot.ini"},
		{"charge sheet (final).pdf", "charge_sheet__final_.pdf"},
		{"", "upload"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWatcherEmitsAcceptedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Root: dir}, testLogger())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "dropped.txt"), []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.exe"), []byte("bin"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-events:
		if filepath.Base(got) != "dropped.txt" {
			t.Errorf("event = %s, want dropped.txt", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no watcher event for accepted file")
	}

	// The rejected extension never surfaces.
	select {
	case got := <-events:
		if filepath.Base(got) == "ignored.exe" {
			t.Errorf("watcher emitted rejected file %s", got)
		}
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherInitialScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "existing.pdf"), []byte("pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Root: dir, InitialScan: true}, testLogger())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	select {
	case got := <-events:
		if filepath.Base(got) != "existing.pdf" {
			t.Errorf("event = %s, want existing.pdf", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("initial scan emitted nothing")
	}
}

func TestWatcherDebouncedBurst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Root: dir, Debounce: 2 * time.Millisecond}, testLogger())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	const n = 120
	want := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("burst-%03d.txt", i))
		want[name] = struct{}{}
		if err := os.WriteFile(name, []byte("text"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := make(map[string]struct{}, n)
	deadline := time.After(5 * time.Second)
	for len(got) < n {
		select {
		case p := <-events:
			got[p] = struct{}{}
		case <-deadline:
			t.Fatalf("received %d of %d burst files", len(got), n)
		}
	}
	for name := range want {
		if _, ok := got[name]; !ok {
			t.Errorf("missing event for %s", filepath.Base(name))
		}
	}
}

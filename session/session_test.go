package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.gob")
	s := New(path)

	if err := s.Save(State{LastShader: "julia-cos"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.LastShader != "julia-cos" {
		t.Errorf("LastShader = %q, want julia-cos", got.LastShader)
	}
	if got.Saved.IsZero() {
		t.Error("Saved was not stamped")
	}
}

func TestLoad(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setup   func(t *testing.T, path string)
		later   time.Duration
		want    string
		wantErr error
	}{
		{
			name:  "missing",
			setup: func(t *testing.T, path string) {},
		},
		{
			name:  "fresh",
			setup: saveAt(start, "mandelbrot"),
			later: 13 * 24 * time.Hour,
			want:  "mandelbrot",
		},
		{
			name:  "expired",
			setup: saveAt(start, "mandelbrot"),
			later: 15 * 24 * time.Hour,
		},
		{
			name: "corrupt",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("not a gob"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.gob")
			tt.setup(t, path)

			s := New(path, WithClock(func() time.Time { return start.Add(tt.later) }))
			got, err := s.Load()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if got.LastShader != tt.want {
				t.Errorf("LastShader = %q, want %q", got.LastShader, tt.want)
			}
		})
	}
}

func saveAt(at time.Time, shader string) func(t *testing.T, path string) {
	return func(t *testing.T, path string) {
		s := New(path, WithClock(func() time.Time { return at }))
		if err := s.Save(State{LastShader: shader}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.gob")
	s := New(path)

	if err := s.Clear(); err != nil {
		t.Errorf("Clear() without a file = %v", err)
	}
	if err := s.Save(State{LastShader: "julia-sin"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("session file still present: %v", err)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "session.gob"))
	for _, shader := range []string{"a", "b", "c"} {
		if err := s.Save(State{LastShader: shader}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want 1", len(entries))
	}
}

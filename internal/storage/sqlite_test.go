package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vedsharma/soar/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "logs"))
	if err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStorageSecurePermissions(t *testing.T) {
	s := newTestStorage(t)

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat db: %v", err)
	}
	if perm := info.Mode().Perm(); perm != secureFileMode {
		t.Errorf("db permissions = %o, want %o", perm, secureFileMode)
	}
}

func TestNewStorageRequiresDir(t *testing.T) {
	if _, err := NewStorage(""); err == nil {
		t.Error("NewStorage(\"\") expected error")
	}
}

func TestAddAndGetErrorLog(t *testing.T) {
	s := newTestStorage(t)

	saved, err := s.AddErrorLog(model.ErrorLog{
		Kind:    "NotFoundHttpException",
		Lines:   []string{"The requested resource could not be found on the server."},
		Command: "soar app users get 99",
	})
	if err != nil {
		t.Fatalf("AddErrorLog() error = %v", err)
	}
	if len(saved.ID) != 8 {
		t.Errorf("ID = %q, want 8 characters", saved.ID)
	}

	got, err := s.GetErrorLog(saved.ID)
	if err != nil {
		t.Fatalf("GetErrorLog() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetErrorLog() = nil")
	}
	if got.Kind != saved.Kind || got.Command != saved.Command || !reflect.DeepEqual(got.Lines, saved.Lines) {
		t.Errorf("GetErrorLog() = %+v, want %+v", got, saved)
	}

	missing, err := s.GetErrorLog("nope")
	if err != nil || missing != nil {
		t.Errorf("GetErrorLog(missing) = %v, %v", missing, err)
	}
}

func TestLoadErrorLogsNewestFirstAndCapped(t *testing.T) {
	s := newTestStorage(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < MaxErrorLogs+5; i++ {
		if _, err := s.AddErrorLog(model.ErrorLog{
			Kind:      "API Error",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("AddErrorLog(%d) error = %v", i, err)
		}
	}

	all, err := s.LoadErrorLogs(0)
	if err != nil {
		t.Fatalf("LoadErrorLogs() error = %v", err)
	}
	if len(all) != MaxErrorLogs {
		t.Fatalf("LoadErrorLogs() returned %d, want %d", len(all), MaxErrorLogs)
	}
	if !all[0].Timestamp.After(all[1].Timestamp) {
		t.Error("LoadErrorLogs() not newest first")
	}
	if oldest := all[len(all)-1].Timestamp; !oldest.Equal(base.Add(5 * time.Minute)) {
		t.Errorf("oldest kept = %v, want the five oldest trimmed", oldest)
	}

	some, _ := s.LoadErrorLogs(3)
	if len(some) != 3 {
		t.Errorf("LoadErrorLogs(3) returned %d", len(some))
	}
}

func TestClearErrorLogs(t *testing.T) {
	s := newTestStorage(t)
	s.AddErrorLog(model.ErrorLog{Kind: "a"})
	s.AddErrorLog(model.ErrorLog{Kind: "b"})

	n, err := s.ClearErrorLogs()
	if err != nil || n != 2 {
		t.Errorf("ClearErrorLogs() = %d, %v", n, err)
	}

	logs, _ := s.LoadErrorLogs(0)
	if len(logs) != 0 {
		t.Errorf("logs after clear = %v", logs)
	}
}

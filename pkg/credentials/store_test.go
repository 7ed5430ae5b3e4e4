package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roon-community/rooncore-go/pkg/connection"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "rooncore", DefaultFileName))
}

func TestLoadMissingFile(t *testing.T) {
	s := tempStore(t)

	creds, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if creds != (connection.Credentials{}) {
		t.Errorf("missing file loaded as %+v, want empty record", creds)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := tempStore(t)

	want := connection.Credentials{
		CoreID:   "core-a",
		CoreName: "Living Room",
		Token:    "tok-123",
		Host:     "192.168.1.40",
		Port:     9330,
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadCorruptedFile(t *testing.T) {
	s := tempStore(t)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	creds, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if creds != (connection.Credentials{}) {
		t.Errorf("corrupted file loaded as %+v, want empty record", creds)
	}
}

func TestUpdateAppliesPartialChange(t *testing.T) {
	s := tempStore(t)

	if err := s.Save(connection.Credentials{CoreID: "core-a", Host: "192.168.1.40", Port: 9330}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	token := "tok-fresh"
	got, err := s.Update(Patch{Token: &token})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if got.Token != "tok-fresh" {
		t.Errorf("Token = %q, want tok-fresh", got.Token)
	}
	if got.CoreID != "core-a" || got.Host != "192.168.1.40" || got.Port != 9330 {
		t.Errorf("untouched fields changed: %+v", got)
	}

	reloaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded != got {
		t.Errorf("Update was not persisted: %+v != %+v", reloaded, got)
	}
}

func TestClear(t *testing.T) {
	s := tempStore(t)

	// Clearing an absent file succeeds.
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear of absent file failed: %v", err)
	}

	if err := s.Save(connection.Credentials{CoreID: "core-a"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	creds, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if creds != (connection.Credentials{}) {
		t.Errorf("Clear did not remove credentials: %+v", creds)
	}
}

func TestFilePermissions(t *testing.T) {
	s := tempStore(t)

	if err := s.Save(connection.Credentials{Token: "secret"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(s.path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credentials file mode = %o, want 600", perm)
	}
}

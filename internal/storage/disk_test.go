package storage

import (
	"io"
	"testing"

	"github.com/spf13/afero"
)

func newTestDisk(t *testing.T) *Disk {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/seeds/users.json", []byte(`[{"id":1}]`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := fs.MkdirAll("/seeds/archive.json", 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	return NewDiskFs(fs, "/seeds")
}

func TestExists(t *testing.T) {
	d := newTestDisk(t)

	if !d.Exists("users.json") {
		t.Error("expected users.json to exist")
	}
	if d.Exists("posts.json") {
		t.Error("expected posts.json to be missing")
	}
	if d.Exists("archive.json") {
		t.Error("directories must not count as seed files")
	}
	if d.Exists("") {
		t.Error("empty name must not exist")
	}
}

func TestPathStaysInsideRoot(t *testing.T) {
	d := NewDiskFs(afero.NewMemMapFs(), "/seeds")
	if got := d.Path("../../etc/passwd"); got != "/seeds/etc/passwd" {
		t.Errorf("Path escaped root: %s", got)
	}
}

func TestOpen(t *testing.T) {
	d := newTestDisk(t)

	rc, err := d.Open("users.json")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != `[{"id":1}]` {
		t.Errorf("unexpected content: %s", data)
	}

	if _, err := d.Open("missing.json"); err == nil {
		t.Error("expected error opening missing file")
	}
}

func TestList(t *testing.T) {
	d := newTestDisk(t)
	names, err := d.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	found := false
	for _, n := range names {
		if n == "users.json" {
			found = true
		}
	}
	if !found {
		t.Errorf("users.json not listed: %v", names)
	}
}

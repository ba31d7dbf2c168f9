package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem(t *testing.T) {
	fsys := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "uam_data")

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	path := filepath.Join(dir, "lidar_0_25-01-01-00-00-00.uld")
	if err := fsys.WriteFile(path, []byte{1, 2, 3}, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !fsys.Exists(path) {
		t.Error("Exists() = false for written file")
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(path) {
		t.Errorf("ReadDir() = %v, want one entry %q", entries, filepath.Base(path))
	}

	f, err := fsys.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(data) != 3 {
		t.Errorf("read %d bytes, want 3", len(data))
	}
}

func TestMemoryFileSystem(t *testing.T) {
	fsys := NewMemoryFileSystem()

	if err := fsys.WriteFile("/data/b.udd", []byte("bb"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := fsys.WriteFile("/data/a.uld", []byte("a"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := fsys.MkdirAll("/data/nested", 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if !fsys.Exists("/data") {
		t.Error("parent directory not created implicitly")
	}

	entries, err := fsys.ReadDir("/data")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"a.uld", "b.udd", "nested"}
	if len(names) != len(want) {
		t.Fatalf("ReadDir() names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if !entries[2].IsDir() {
		t.Error("nested entry should be a directory")
	}

	f, err := fsys.Open("/data/b.udd")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, _ := io.ReadAll(f)
	if string(data) != "bb" {
		t.Errorf("read %q, want %q", data, "bb")
	}

	if _, err := fsys.Open("/data/missing.uld"); !os.IsNotExist(err) {
		t.Errorf("Open(missing) error = %v, want not-exist", err)
	}
	if _, err := fsys.ReadDir("/nowhere"); err == nil {
		t.Error("ReadDir(missing) expected error")
	}
}

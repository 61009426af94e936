package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func tempDB(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempDB(t)
	content := []byte(`{"partNum": "LM317T"}`)
	if err := s.Write("LM317T.json", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("LM317T.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteTruncatesExisting(t *testing.T) {
	s := tempDB(t)
	_ = s.Write("p.json", []byte("a much longer original payload"))
	if err := s.Write("p.json", []byte("short")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("p.json")
	if string(got) != "short" {
		t.Errorf("expected replaced content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.Root(), ".partsdb-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestWriteFailsWhenRootRemoved(t *testing.T) {
	s := tempDB(t)
	if err := os.Remove(s.Root()); err != nil {
		t.Fatalf("remove root: %v", err)
	}
	err := s.Write("p.json", []byte("x"))
	if err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestDelete(t *testing.T) {
	s := tempDB(t)
	_ = s.Write("del.json", []byte("bye"))
	if err := s.Delete("del.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error reading deleted file, got %v", err)
	}
}

func TestList(t *testing.T) {
	s := tempDB(t)
	_ = s.Write("a.json", []byte("{}"))
	_ = s.Write("b.json", []byte("{}"))
	_ = s.Write("readme.txt", []byte("not a record"))
	_ = os.Mkdir(filepath.Join(s.Root(), "sub.json"), 0o755)

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Name != "a.json" || items[0].Size != 2 {
		t.Errorf("items[0] = %+v", items[0])
	}
}

func TestPathRejectsDirectories(t *testing.T) {
	s := tempDB(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.json",
		"/etc/shadow",
		"sub/inner.json",
		"",
		"..",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestPath(t *testing.T) {
	s := tempDB(t)
	got, err := s.Path("X.json")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if want := filepath.Join(s.Root(), "X.json"); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestInit(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".database")
	abs, err := Init(root)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := NewFS(abs); err != nil {
		t.Errorf("NewFS after Init: %v", err)
	}
	if _, err := Init(root); err != nil {
		t.Errorf("Init should be idempotent: %v", err)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "partsdb-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}

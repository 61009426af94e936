package partservice

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/partsdb/internal/apperr"
	"github.com/starford/partsdb/internal/models"
	"github.com/starford/partsdb/internal/testutil"
)

func TestSave_DefaultPathRoundTrip(t *testing.T) {
	dir, store := testutil.TestStore(t)
	svc := NewService(store)

	p := models.NewPart("RC0603/FR-07 10K")
	p.Manufacturer = "Yageo"
	p.DatasheetURL = models.StringPtr("https://ds/rc.pdf")
	p.Count = 100

	path, err := svc.Save(p)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "RC0603FR-07 10K.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if def, _ := svc.DefaultPath(p); def != path {
		t.Errorf("DefaultPath = %q, want %q", def, path)
	}

	rec := testutil.ReadRecord(t, path)
	want := map[string]any{
		"partNum":      "RC0603/FR-07 10K",
		"category":     "uncategorized",
		"manufacturer": "Yageo",
		"description":  nil,
		"imageUrl":     nil,
		"datasheetUrl": "https://ds/rc.pdf",
		"productUrl":   nil,
		"count":        float64(100),
	}
	if len(rec) != len(want) {
		t.Errorf("record has %d keys, want %d: %v", len(rec), len(want), rec)
	}
	for k, v := range want {
		got, ok := rec[k]
		if !ok {
			t.Errorf("missing key %q", k)
			continue
		}
		if got != v {
			t.Errorf("%s = %v, want %v", k, got, v)
		}
	}
}

func TestSave_Overwrites(t *testing.T) {
	dir, store := testutil.TestStore(t)
	svc := NewService(store)

	p := models.NewPart("NE555P")
	p.Count = 1
	_, _ = svc.Save(p)
	p.Count = 7
	if _, err := svc.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := svc.Get("NE555P")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Count != 7 {
		t.Errorf("count = %d, want 7", got.Count)
	}
	if files := testutil.RecordFiles(t, dir); len(files) != 1 {
		t.Errorf("files = %v, want one", files)
	}
}

func TestSaveAs(t *testing.T) {
	dir, store := testutil.TestStore(t)
	svc := NewService(store)

	path, err := svc.SaveAs(models.NewPart("X1"), "custom.json")
	if err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if path != filepath.Join(dir, "custom.json") {
		t.Errorf("path = %q", path)
	}
}

func TestSave_RejectsEmptyPartNum(t *testing.T) {
	_, store := testutil.TestStore(t)
	if _, err := NewService(store).Save(models.NewPart("")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSave_MissingDirectory(t *testing.T) {
	dir, store := testutil.TestStore(t)
	if err := os.Remove(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := NewService(store).Save(models.NewPart("X1")); err == nil {
		t.Fatal("expected I/O error when the database directory is gone")
	}
}

func TestListSorted(t *testing.T) {
	_, store := testutil.TestStore(t)
	svc := NewService(store)
	for _, n := range []string{"ZZ9", "AA1", "MM5"} {
		if _, err := svc.Save(models.NewPart(n)); err != nil {
			t.Fatalf("Save %s: %v", n, err)
		}
	}
	parts, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(parts) != 3 || parts[0].PartNum != "AA1" || parts[2].PartNum != "ZZ9" {
		t.Errorf("parts = %v", parts)
	}
}

func TestGetAndDelete_NotFound(t *testing.T) {
	_, store := testutil.TestStore(t)
	svc := NewService(store)
	if _, err := svc.Get("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	dir, store := testutil.TestStore(t)
	svc := NewService(store)
	_, _ = svc.Save(models.NewPart("X1"))
	if err := svc.Delete("X1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if files := testutil.RecordFiles(t, dir); len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
}

func TestSave_WritesAmpersandLiterally(t *testing.T) {
	_, store := testutil.TestStore(t)
	svc := NewService(store)

	p := models.NewPart("NE555P")
	p.Category = "Timers & Support Products"
	p.ProductURL = models.StringPtr("https://www.mouser.com/ProductDetail/595-NE555P?qs=a&b=c")

	path, err := svc.Save(p)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`"category": "Timers & Support Products"`,
		`"productUrl": "https://www.mouser.com/ProductDetail/595-NE555P?qs=a&b=c"`,
	} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("record missing %s:\n%s", want, data)
		}
	}
}

package lookup

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/partsdb/internal/credentials"
	"github.com/starford/partsdb/internal/partservice"
	"github.com/starford/partsdb/internal/provider"
	"github.com/starford/partsdb/internal/testutil"
)

func newFlow(t *testing.T, parts []testutil.MouserPart) (*Flow, string, *bytes.Buffer) {
	t.Helper()
	fake := testutil.NewFakeMouser(t, func(string) (int, []byte) {
		return http.StatusOK, testutil.MouserResponse(parts...)
	})
	creds := credentials.New("k")
	searcher, err := provider.NewSearcher("mouser", creds, provider.Settings{Endpoint: fake.Endpoint()})
	if err != nil {
		t.Fatal(err)
	}
	parser, err := provider.NewParser("mouser", creds)
	if err != nil {
		t.Fatal(err)
	}
	dir, store := testutil.TestStore(t)
	out := &bytes.Buffer{}
	return &Flow{
		Searcher: searcher,
		Parser:   parser,
		Saver:    partservice.NewService(store),
		Out:      out,
	}, dir, out
}

func TestRun_PrintsIndexedParts(t *testing.T) {
	f, dir, out := newFlow(t, testutil.NumberedParts("LM", 2))
	res, err := f.Run(context.Background(), Request{Query: "LM"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(res.Parts))
	}
	want := "[  1 ] LM-1: part 1\n[  2 ] LM-2: part 2\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if files := testutil.RecordFiles(t, dir); len(files) != 0 {
		t.Errorf("lookup without insert wrote %v", files)
	}
}

func TestRun_InsertZero(t *testing.T) {
	f, dir, out := newFlow(t, nil)
	res, err := f.Run(context.Background(), Request{Query: "none", Insert: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Refusal != MsgNothingToInsert {
		t.Errorf("refusal = %q", res.Refusal)
	}
	if !strings.Contains(out.String(), "nothing to insert") {
		t.Errorf("output = %q", out.String())
	}
	if files := testutil.RecordFiles(t, dir); len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
}

func TestRun_InsertOne(t *testing.T) {
	f, dir, _ := newFlow(t, []testutil.MouserPart{{ManufacturerPartNumber: "BSS138/TR", Manufacturer: "onsemi"}})
	res, err := f.Run(context.Background(), Request{Query: "BSS138", Insert: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(dir, "BSS138TR.json")
	if res.SavedPath != want {
		t.Errorf("saved = %q, want %q", res.SavedPath, want)
	}
	files := testutil.RecordFiles(t, dir)
	if len(files) != 1 || files[0] != "BSS138TR.json" {
		t.Fatalf("files = %v", files)
	}
	rec := testutil.ReadRecord(t, want)
	if rec["partNum"] != "BSS138/TR" || rec["manufacturer"] != "onsemi" {
		t.Errorf("record = %v", rec)
	}
}

func TestRun_InsertMany(t *testing.T) {
	f, dir, out := newFlow(t, testutil.NumberedParts("R", 3))
	res, err := f.Run(context.Background(), Request{Query: "R", Insert: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Refusal != MsgTooManyToInsert {
		t.Errorf("refusal = %q", res.Refusal)
	}
	if !strings.Contains(out.String(), "Refusing to insert more than one part") {
		t.Errorf("output = %q", out.String())
	}
	if files := testutil.RecordFiles(t, dir); len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
}

func TestRun_SearchErrorAborts(t *testing.T) {
	fake := testutil.NewFakeMouser(t, func(string) (int, []byte) {
		return http.StatusOK, []byte(`{"Errors":[]}`)
	})
	creds := credentials.New("k")
	searcher, _ := provider.NewSearcher("mouser", creds, provider.Settings{Endpoint: fake.Endpoint()})
	parser, _ := provider.NewParser("mouser", creds)
	f := &Flow{Searcher: searcher, Parser: parser, Out: &bytes.Buffer{}}
	if _, err := f.Run(context.Background(), Request{Query: "x", Insert: true}); err == nil {
		t.Fatal("expected parse error to abort the lookup")
	}
}

func TestRun_InsertWithoutSaver(t *testing.T) {
	f, _, _ := newFlow(t, testutil.NumberedParts("X", 1))
	f.Saver = nil
	_, err := f.Run(context.Background(), Request{Query: "X", Insert: true})
	if err == nil {
		t.Fatal("expected an error when no part store is configured")
	}
}

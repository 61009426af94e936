// Package testutil provides shared test helpers for database directories and
// a fake distributor API.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/partsdb/internal/storage"
)

// KeywordPath is the route the fake Mouser server answers on.
const KeywordPath = "/api/v1/search/keyword"

// TestStore creates a temporary database directory with a storage.Provider.
func TestStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// RecordFiles returns the names of the .json files in dir.
func RecordFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*"+storage.Extension))
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	return names
}

// ReadRecord decodes the JSON file at path into a generic map.
func ReadRecord(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return out
}

// MouserPart is one entry in a fake Mouser response.
type MouserPart struct {
	ManufacturerPartNumber string  `json:"ManufacturerPartNumber"`
	Category               string  `json:"Category"`
	Manufacturer           string  `json:"Manufacturer"`
	Description            string  `json:"Description"`
	ImagePath              *string `json:"ImagePath"`
	DataSheetURL           string  `json:"DataSheetUrl"`
	ProductDetailURL       string  `json:"ProductDetailUrl"`
}

// MouserResponse renders a keyword search response body holding parts.
func MouserResponse(parts ...MouserPart) []byte {
	if parts == nil {
		parts = []MouserPart{}
	}
	body, _ := json.Marshal(map[string]any{
		"Errors": []any{},
		"SearchResults": map[string]any{
			"NumberOfResult": len(parts),
			"Parts":          parts,
		},
	})
	return body
}

// NumberedParts returns n parts named PREFIX-1 … PREFIX-n.
func NumberedParts(prefix string, n int) []MouserPart {
	out := make([]MouserPart, n)
	for i := range out {
		out[i] = MouserPart{
			ManufacturerPartNumber: fmt.Sprintf("%s-%d", prefix, i+1),
			Manufacturer:           "Acme",
			Description:            fmt.Sprintf("part %d", i+1),
		}
	}
	return out
}

// MouserRequest is a request captured by FakeMouser.
type MouserRequest struct {
	APIKey      string
	ContentType string
	Body        map[string]any
}

// FakeMouser is an httptest server imitating the keyword search endpoint.
type FakeMouser struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []MouserRequest
	respond  func(keyword string) (int, []byte)
}

// NewFakeMouser starts a fake server answering every keyword with respond.
func NewFakeMouser(t *testing.T, respond func(keyword string) (int, []byte)) *FakeMouser {
	t.Helper()
	f := &FakeMouser{respond: respond}

	r := chi.NewRouter()
	r.Post(KeywordPath, f.handleKeyword)
	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// Endpoint returns the keyword search URL of the fake server.
func (f *FakeMouser) Endpoint() string {
	return f.Server.URL + KeywordPath
}

// Requests returns the captured requests.
func (f *FakeMouser) Requests() []MouserRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MouserRequest(nil), f.requests...)
}

func (f *FakeMouser) handleKeyword(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(data, &body)

	f.mu.Lock()
	f.requests = append(f.requests, MouserRequest{
		APIKey:      r.URL.Query().Get("apiKey"),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	f.mu.Unlock()

	keyword := ""
	if q, ok := body["SearchByKeywordRequest"].(map[string]any); ok {
		keyword, _ = q["keyword"].(string)
	}
	status, resp := f.respond(keyword)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(resp)
}

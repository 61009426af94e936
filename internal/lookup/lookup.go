// Package lookup runs a one-shot part search with optional insert.
package lookup

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/partsdb/internal/models"
	"github.com/starford/partsdb/internal/provider"
)

// Operator-facing refusal messages.
const (
	MsgNothingToInsert = "No parts were found, nothing to insert!"
	MsgTooManyToInsert = "Refusing to insert more than one part, make your query more selective!"
)

// Saver persists a part and returns the written path.
type Saver interface {
	Save(p *models.Part) (string, error)
}

// Request describes one lookup.
type Request struct {
	Query  string
	Exact  bool
	Insert bool
}

// Result reports what a lookup found and did.
type Result struct {
	Parts []*models.Part
	// SavedPath is set when the single match was inserted.
	SavedPath string
	// Refusal is set when insert was requested but not performed.
	Refusal string
}

// Flow wires the capabilities a lookup needs.
type Flow struct {
	Searcher provider.Searcher
	Parser   provider.Parser
	// Saver is only used when Request.Insert is set.
	Saver Saver
	Out   io.Writer
}

// Run searches, prints every match with a 1-based index and, when asked,
// inserts the match if there is exactly one.
func (f *Flow) Run(ctx context.Context, req Request) (*Result, error) {
	raw, err := f.Searcher.Search(ctx, req.Query, req.Exact)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	parts, err := f.Parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	slog.Debug("lookup: parsed", slog.String("query", req.Query), slog.Int("parts", len(parts)))

	for i, p := range parts {
		fmt.Fprintln(f.Out, p.Indexed(i+1))
	}

	res := &Result{Parts: parts}
	if !req.Insert {
		return res, nil
	}

	switch len(parts) {
	case 0:
		res.Refusal = MsgNothingToInsert
	case 1:
		if f.Saver == nil {
			return nil, fmt.Errorf("lookup: insert requested without a part store")
		}
		path, err := f.Saver.Save(parts[0])
		if err != nil {
			return nil, fmt.Errorf("lookup: insert: %w", err)
		}
		res.SavedPath = path
		fmt.Fprintf(f.Out, "Written part to '%s' ...\n", path)
		return res, nil
	default:
		res.Refusal = MsgTooManyToInsert
	}
	fmt.Fprintln(f.Out, res.Refusal)
	return res, nil
}

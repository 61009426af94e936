// Package inventory runs the interactive inventory loop: look a part up,
// pick one match, enter the on-hand count and save it.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/starford/partsdb/internal/apperr"
	"github.com/starford/partsdb/internal/models"
	"github.com/starford/partsdb/internal/provider"
)

// QuitToken aborts the current prompt.
const QuitToken = "q"

// Prompts shown to the operator.
const (
	PromptPartID    = "Part ID (or 'q' to exit): "
	PromptSelection = "Select part to add (or 'q' to exit): "
	PromptCount     = "Count (or 'q' to exit): "
)

// Saver persists a part and returns the written path.
type Saver interface {
	Save(p *models.Part) (string, error)
}

type state int

const (
	statePrompt state = iota
	stateSearch
	stateDisambiguate
	stateSelected
	stateDone
)

func (s state) String() string {
	switch s {
	case statePrompt:
		return "prompt"
	case stateSearch:
		return "search"
	case stateDisambiguate:
		return "disambiguate"
	case stateSelected:
		return "selected"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// Session is one interactive inventory run.
type Session struct {
	searcher provider.Searcher
	parser   provider.Parser
	saver    Saver
	in       LineReader
	out      io.Writer

	query    string
	matches  []*models.Part
	selected *models.Part
	saved    int
}

// NewSession creates a session reading operator input from in and writing
// to out.
func NewSession(searcher provider.Searcher, parser provider.Parser, saver Saver, in LineReader, out io.Writer) *Session {
	return &Session{
		searcher: searcher,
		parser:   parser,
		saver:    saver,
		in:       in,
		out:      out,
	}
}

// Saved returns the number of parts written so far.
func (s *Session) Saved() int {
	return s.saved
}

// Run drives the state machine until the operator quits at the top-level
// prompt or input ends. Search failures abort the session.
func (s *Session) Run(ctx context.Context) error {
	st := statePrompt
	for st != stateDone {
		if err := ctx.Err(); err != nil {
			return err
		}
		var (
			next state
			err  error
		)
		switch st {
		case statePrompt:
			next, err = s.prompt()
		case stateSearch:
			next, err = s.search(ctx)
		case stateDisambiguate:
			next, err = s.disambiguate()
		case stateSelected:
			next, err = s.count()
		}
		if errors.Is(err, io.EOF) {
			slog.Debug("inventory: input closed", slog.String("state", st.String()))
			return nil
		}
		if err != nil {
			return err
		}
		st = next
	}
	return nil
}

func (s *Session) prompt() (state, error) {
	s.query, s.matches, s.selected = "", nil, nil
	line, err := s.in.ReadLine(PromptPartID)
	if err != nil {
		return stateDone, err
	}
	if line == QuitToken {
		return stateDone, nil
	}
	s.query = line
	return stateSearch, nil
}

func (s *Session) search(ctx context.Context) (state, error) {
	raw, err := s.searcher.Search(ctx, s.query, false)
	if err != nil {
		return stateDone, fmt.Errorf("inventory: %w", err)
	}
	parts, err := s.parser.Parse(raw)
	if err != nil {
		return stateDone, fmt.Errorf("inventory: %w", err)
	}

	switch len(parts) {
	case 0:
		fmt.Fprintln(s.out, "Found no parts for this keyword ...")
		return statePrompt, nil
	case 1:
		s.selected = parts[0]
		return stateSelected, nil
	}

	s.matches = parts
	fmt.Fprintln(s.out, "Found multiple parts for this keyword:")
	for i, p := range parts {
		fmt.Fprintln(s.out, p.Indexed(i+1))
	}
	return stateDisambiguate, nil
}

func (s *Session) disambiguate() (state, error) {
	for {
		line, err := s.in.ReadLine(PromptSelection)
		if err != nil {
			return stateDone, err
		}
		if line == QuitToken {
			return statePrompt, nil
		}
		idx, err := parseSelection(line, len(s.matches))
		if err != nil {
			fmt.Fprintf(s.out, "Selection error: %v\n", err)
			continue
		}
		s.selected = s.matches[idx-1]
		return stateSelected, nil
	}
}

func (s *Session) count() (state, error) {
	fmt.Fprintf(s.out, "\nSelected part:\n%s\n\n", s.selected)
	for {
		line, err := s.in.ReadLine(PromptCount)
		if err != nil {
			return stateDone, err
		}
		if line == QuitToken {
			return statePrompt, nil
		}
		n, err := parseCount(line)
		if err != nil {
			fmt.Fprintf(s.out, "Conversion error: %v\n", err)
			continue
		}
		s.selected.Count = n
		break
	}

	path, err := s.saver.Save(s.selected)
	if err != nil {
		slog.Warn("inventory: save failed", slog.String("part", s.selected.PartNum), slog.String("error", err.Error()))
		fmt.Fprintf(s.out, "Could not save part: %v\n\n", err)
		return statePrompt, nil
	}
	s.saved++
	fmt.Fprintf(s.out, "Written part to '%s' ...\n\n\n", path)
	return statePrompt, nil
}

// parseSelection returns the 1-based index in line, which must lie in [1, n].
func parseSelection(line string, n int) (int, error) {
	idx, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", apperr.ErrInvalidInput, line)
	}
	if idx < 1 || idx > n {
		return 0, fmt.Errorf("%w: %d is not between 1 and %d", apperr.ErrInvalidInput, idx, n)
	}
	return idx, nil
}

// parseCount returns the positive count in line.
func parseCount(line string) (int, error) {
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", apperr.ErrInvalidInput, line)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: count must be at least 1, got %d", apperr.ErrInvalidInput, n)
	}
	return n, nil
}

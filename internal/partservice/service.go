// Package partservice persists Part records in the database directory.
package partservice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/starford/partsdb/internal/apperr"
	"github.com/starford/partsdb/internal/models"
	"github.com/starford/partsdb/internal/storage"
)

// Service reads and writes parts through a storage provider.
type Service struct {
	store storage.Provider
}

// NewService creates a new part service.
func NewService(store storage.Provider) *Service {
	return &Service{store: store}
}

// DefaultPath returns the path a part is saved at when no name is given.
func (s *Service) DefaultPath(p *models.Part) (string, error) {
	return s.store.Path(p.Filename())
}

// Save writes p under its default file name, replacing any earlier record
// for the same part number, and returns the written path.
func (s *Service) Save(p *models.Part) (string, error) {
	return s.SaveAs(p, p.Filename())
}

// SaveAs writes p under name in the database directory.
func (s *Service) SaveAs(p *models.Part, name string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("partservice: save %s: %w", p.PartNum, err)
	}
	data, err := p.Marshal()
	if err != nil {
		return "", err
	}
	path, err := s.store.Path(name)
	if err != nil {
		return "", err
	}
	if err := s.store.Write(name, data); err != nil {
		return "", fmt.Errorf("partservice: save %s: %w", p.PartNum, err)
	}
	return path, nil
}

// Get reads the saved record for partNum.
func (s *Service) Get(partNum string) (*models.Part, error) {
	name := models.NewPart(partNum).Filename()
	data, err := s.store.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("partservice: %s: %w", partNum, apperr.ErrNotFound)
		}
		return nil, err
	}
	return decode(name, data)
}

// List returns every saved part sorted by part number.
func (s *Service) List() ([]*models.Part, error) {
	files, err := s.store.List()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Part, 0, len(files))
	for _, f := range files {
		data, err := s.store.Read(f.Name)
		if err != nil {
			return nil, err
		}
		p, err := decode(f.Name, data)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PartNum < out[j].PartNum })
	return out, nil
}

// Delete removes the saved record for partNum.
func (s *Service) Delete(partNum string) error {
	err := s.store.Delete(models.NewPart(partNum).Filename())
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("partservice: %s: %w", partNum, apperr.ErrNotFound)
	}
	return err
}

func decode(name string, data []byte) (*models.Part, error) {
	var p models.Part
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("partservice: decode %s: %w", name, err)
	}
	return &p, nil
}

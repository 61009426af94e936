// Package models defines the domain types for partsdb.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Defaults applied to a freshly constructed Part.
const (
	DefaultCategory     = "uncategorized"
	DefaultManufacturer = "unknown"
)

// Part is one inventoried electronic component. Field order is the
// persisted key order.
type Part struct {
	PartNum      string  `json:"partNum"`
	Category     string  `json:"category"`
	Manufacturer string  `json:"manufacturer"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
	DatasheetURL *string `json:"datasheetUrl"`
	ProductURL   *string `json:"productUrl"`
	Count        int     `json:"count"`
}

// NewPart returns a Part identified by partNum with every other field at its default.
func NewPart(partNum string) *Part {
	return &Part{
		PartNum:      partNum,
		Category:     DefaultCategory,
		Manufacturer: DefaultManufacturer,
	}
}

// Validate checks the identity invariant.
func (p *Part) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.PartNum, validation.Required),
		validation.Field(&p.Count, validation.Min(0)),
	)
}

// Filename returns the file name the part is persisted under, relative to
// the database directory.
func (p *Part) Filename() string {
	return SanitizeFilename(p.PartNum) + ".json"
}

// Marshal renders the part as indented JSON with a trailing newline.
// Characters such as & and < are written literally.
func (p *Part) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("models: marshal part %s: %w", p.PartNum, err)
	}
	return buf.Bytes(), nil
}

// String renders a one-line summary.
func (p *Part) String() string {
	desc := "None"
	if p.Description != nil {
		desc = *p.Description
	}
	return fmt.Sprintf("%s: %s", p.PartNum, desc)
}

// Indexed renders the summary prefixed with a right-aligned selection index.
func (p *Part) Indexed(index int) string {
	return fmt.Sprintf("[ %2d ] %s", index, p.String())
}

// SanitizeFilename drops every character that is not a letter, digit,
// hyphen, underscore, dot, parenthesis or space.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isFilenameRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_.() ", r)
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

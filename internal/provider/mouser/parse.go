package mouser

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/partsdb/internal/apperr"
	"github.com/starford/partsdb/internal/credentials"
	"github.com/starford/partsdb/internal/models"
)

type searchResponse struct {
	Errors        []apiError     `json:"Errors"`
	SearchResults *searchResults `json:"SearchResults"`
}

type apiError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

type searchResults struct {
	NumberOfResult int        `json:"NumberOfResult"`
	Parts          *[]apiPart `json:"Parts"`
}

type apiPart struct {
	ManufacturerPartNumber string `json:"ManufacturerPartNumber"`
	Category               string `json:"Category"`
	Manufacturer           string `json:"Manufacturer"`
	Description            string `json:"Description"`
	ImagePath              string `json:"ImagePath"`
	DataSheetURL           string `json:"DataSheetUrl"`
	ProductDetailURL       string `json:"ProductDetailUrl"`
}

// Parser maps Mouser keyword search responses to parts.
type Parser struct{}

// NewParser creates a Parser. It fails when creds carry no Mouser key.
func NewParser(creds credentials.Credentials) (*Parser, error) {
	if _, err := creds.MouserAPIKey(); err != nil {
		return nil, err
	}
	return &Parser{}, nil
}

// Parse reads SearchResults.Parts. Missing keys are an error; empty or null
// source fields leave the part default in place. Entries without a
// manufacturer part number are skipped.
func (p *Parser) Parse(raw json.RawMessage) ([]*models.Part, error) {
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("mouser: decode response: %w: %v", apperr.ErrMalformedResponse, err)
	}
	if resp.SearchResults == nil {
		return nil, fmt.Errorf("mouser: missing SearchResults%s: %w", describeErrors(resp.Errors), apperr.ErrMalformedResponse)
	}
	if resp.SearchResults.Parts == nil {
		return nil, fmt.Errorf("mouser: missing SearchResults.Parts: %w", apperr.ErrMalformedResponse)
	}

	src := *resp.SearchResults.Parts
	parts := make([]*models.Part, 0, len(src))
	for i, jp := range src {
		part := models.NewPart(jp.ManufacturerPartNumber)
		if err := part.Validate(); err != nil {
			slog.Warn("mouser: skipping result without part number",
				slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		if jp.Category != "" {
			part.Category = jp.Category
		}
		if jp.Manufacturer != "" {
			part.Manufacturer = jp.Manufacturer
		}
		if v := models.StringPtr(jp.Description); v != nil {
			part.Description = v
		}
		if v := models.StringPtr(jp.ImagePath); v != nil {
			part.ImageURL = v
		}
		if v := models.StringPtr(jp.DataSheetURL); v != nil {
			part.DatasheetURL = v
		}
		if v := models.StringPtr(jp.ProductDetailURL); v != nil {
			part.ProductURL = v
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func describeErrors(errs []apiError) string {
	if len(errs) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Code != "" {
			msgs = append(msgs, e.Code+": "+e.Message)
		} else {
			msgs = append(msgs, e.Message)
		}
	}
	return " (" + strings.Join(msgs, "; ") + ")"
}

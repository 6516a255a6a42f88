package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sales-order-booking/internal/model"

	"github.com/shopspring/decimal"
)

var whitespace = regexp.MustCompile(`\s+`)

// catalogEntry accepts both the legacy product sheet export
// (item/packsize/packPrize) and the API's Product shape.
type catalogEntry struct {
	ID        json.RawMessage `json:"id"`
	Item      string          `json:"item"`
	Name      string          `json:"name"`
	Packing   json.RawMessage `json:"packing"`
	PackSize  json.RawMessage `json:"packSize"`
	Packsize  json.RawMessage `json:"packsize"`
	PackPrize json.RawMessage `json:"packPrize"`
	PackPrice json.RawMessage `json:"packPrice"`
	CasePrice json.RawMessage `json:"casePrice"`
}

// ParseCatalog decodes a JSON array of catalog entries. Entries without an id
// get "<index>-<name with dashes>". Empty or null prices stay unset.
func ParseCatalog(data []byte) ([]model.Product, error) {
	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	products := make([]model.Product, 0, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(firstNonEmpty(e.Name, e.Item))
		if name == "" {
			return nil, fmt.Errorf("catalog entry %d: %w", i, &model.ValidationError{
				Fields: []string{"item"},
				Reason: "catalog entry has no name",
			})
		}

		packPrice, err := catalogPrice(firstRaw(e.PackPrice, e.PackPrize))
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d packPrice: %w", i, err)
		}
		casePrice, err := catalogPrice(e.CasePrice)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d casePrice: %w", i, err)
		}

		id := scalarText(e.ID)
		if id == "" {
			id = strconv.Itoa(i) + "-" + whitespace.ReplaceAllString(name, "-")
		}

		products = append(products, model.Product{
			ID:        id,
			Name:      name,
			PackPrice: packPrice,
			CasePrice: casePrice,
			PackSize:  scalarText(firstRaw(e.PackSize, e.Packsize)),
			Packing:   scalarText(e.Packing),
		})
	}

	return products, nil
}

func catalogPrice(raw json.RawMessage) (decimal.NullDecimal, error) {
	s := scalarText(raw)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	return model.ParsePrice(s)
}

// scalarText returns a JSON string unquoted, a number verbatim and null as "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return string(raw)
}

func firstRaw(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if scalarText(v) != "" {
			return v
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

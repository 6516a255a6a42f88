package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PurchaseMode selects which price and quantity semantics apply to a line item.
type PurchaseMode string

const (
	ModePack PurchaseMode = "pack"
	ModeCase PurchaseMode = "case"
)

// Valid reports whether m is one of the known purchase modes.
func (m PurchaseMode) Valid() bool {
	return m == ModePack || m == ModeCase
}

// ParsePurchaseMode normalises user input into a PurchaseMode.
// An empty value defaults to pack, matching the product picker.
func ParsePurchaseMode(s string) (PurchaseMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModePack, nil
	}
	m := PurchaseMode(s)
	if !m.Valid() {
		return "", ErrInvalidOption
	}
	return m, nil
}

// LineItem is one product configuration in a cart.
//
// CartID identifies the cart line and is unique within a cart; ProductID is
// shared by every line created from the same catalog product. The price for
// the selected mode must be read through ActivePrice and written through
// WithActivePrice.
type LineItem struct {
	CartID    string              `json:"cartId,omitempty"`
	ProductID string              `json:"id"`
	Name      string              `json:"item"`
	Mode      PurchaseMode        `json:"option"`
	Qty       int                 `json:"qty"`
	PackPrice decimal.NullDecimal `json:"packPrice"`
	CasePrice decimal.NullDecimal `json:"casePrice"`
	PackSize  string              `json:"packSize,omitempty"`
	Packing   string              `json:"packing,omitempty"`
}

// ActivePrice returns the unit price for the item's selected mode.
// The returned value is not Valid when the price is unset.
func (li LineItem) ActivePrice() (decimal.NullDecimal, error) {
	switch li.Mode {
	case ModePack:
		return li.PackPrice, nil
	case ModeCase:
		return li.CasePrice, nil
	default:
		return decimal.NullDecimal{}, ErrInvalidOption
	}
}

// WithActivePrice returns a copy of li with the selected mode's price replaced.
func (li LineItem) WithActivePrice(price decimal.NullDecimal) (LineItem, error) {
	switch li.Mode {
	case ModePack:
		li.PackPrice = price
	case ModeCase:
		li.CasePrice = price
	default:
		return li, ErrInvalidOption
	}
	return li, nil
}

// Validate checks the invariants every cart line must hold.
func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Name) == "" {
		return &ValidationError{Fields: []string{"item"}, Reason: "line item is incomplete"}
	}
	if !li.Mode.Valid() {
		return ErrInvalidOption
	}
	if li.Qty <= 0 {
		return ErrInvalidQuantity
	}
	for _, p := range []decimal.NullDecimal{li.PackPrice, li.CasePrice} {
		if p.Valid && p.Decimal.IsNegative() {
			return ErrInvalidPrice
		}
	}
	return nil
}

// ParsePrice converts a user-entered price. An empty string means the price
// is intentionally unset, which is different from zero.
func ParsePrice(raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return decimal.NewNullDecimal(d), nil
}

// lineItemJSON is the persisted shape. Prices and descriptive fields are kept
// raw because older blobs carry them as numbers, strings or null.
type lineItemJSON struct {
	CartID    string          `json:"cartId,omitempty"`
	ProductID json.RawMessage `json:"id"`
	Name      string          `json:"item"`
	Mode      PurchaseMode    `json:"option"`
	Qty       json.RawMessage `json:"qty"`
	PackPrice json.RawMessage `json:"packPrice"`
	CasePrice json.RawMessage `json:"casePrice"`
	PackSize  json.RawMessage `json:"packSize,omitempty"`
	Packing   json.RawMessage `json:"packing,omitempty"`
}

// MarshalJSON writes prices as plain JSON numbers (or null).
func (li LineItem) MarshalJSON() ([]byte, error) {
	productID, err := json.Marshal(li.ProductID)
	if err != nil {
		return nil, err
	}
	w := lineItemJSON{
		CartID:    li.CartID,
		ProductID: productID,
		Name:      li.Name,
		Mode:      li.Mode,
		Qty:       json.RawMessage(strconv.Itoa(li.Qty)),
		PackPrice: priceJSON(li.PackPrice),
		CasePrice: priceJSON(li.CasePrice),
	}
	if li.PackSize != "" {
		w.PackSize, _ = json.Marshal(li.PackSize)
	}
	if li.Packing != "" {
		w.Packing, _ = json.Marshal(li.Packing)
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts prices and quantities encoded as numbers or strings.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var w lineItemJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	packPrice, err := parseRawPrice(w.PackPrice)
	if err != nil {
		return fmt.Errorf("packPrice: %w", err)
	}
	casePrice, err := parseRawPrice(w.CasePrice)
	if err != nil {
		return fmt.Errorf("casePrice: %w", err)
	}
	qty, err := parseRawInt(w.Qty)
	if err != nil {
		return fmt.Errorf("qty: %w", err)
	}

	*li = LineItem{
		CartID:    w.CartID,
		ProductID: rawText(w.ProductID),
		Name:      w.Name,
		Mode:      w.Mode,
		Qty:       qty,
		PackPrice: packPrice,
		CasePrice: casePrice,
		PackSize:  rawText(w.PackSize),
		Packing:   rawText(w.Packing),
	}
	return nil
}

func priceJSON(p decimal.NullDecimal) json.RawMessage {
	if !p.Valid {
		return json.RawMessage("null")
	}
	return json.RawMessage(p.Decimal.String())
}

func parseRawPrice(raw json.RawMessage) (decimal.NullDecimal, error) {
	s := rawText(raw)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

var (
	maxQty = decimal.NewFromInt(math.MaxInt)
	minQty = decimal.NewFromInt(math.MinInt)
)

func parseRawInt(raw json.RawMessage) (int, error) {
	s := rawText(raw)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidQuantity, s)
	}

	// Quantities typed into number inputs occasionally arrive as "2.0".
	d, derr := decimal.NewFromString(s)
	if derr != nil || !d.IsInteger() {
		return 0, err
	}
	if d.GreaterThan(maxQty) || d.LessThan(minQty) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidQuantity, s)
	}
	return int(d.IntPart()), nil
}

// rawText returns the textual content of a JSON scalar: strings are
// unquoted, numbers are returned verbatim and null becomes "".
func rawText(raw json.RawMessage) string {
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

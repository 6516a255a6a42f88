// Package pricing derives line and order totals from line items.
//
// Totals are never persisted, so every reader (checkout, order listing,
// order detail) recomputes them here.
package pricing

import (
	"fmt"

	"sales-order-booking/internal/model"

	"github.com/shopspring/decimal"
)

// ExtendedPrice returns unit price * qty for the item's selected mode.
// Both pack and case lines are multiplied by their quantity.
func ExtendedPrice(item model.LineItem) (decimal.Decimal, error) {
	price, err := item.ActivePrice()
	if err != nil {
		return decimal.Zero, err
	}
	if !price.Valid {
		return decimal.Zero, fmt.Errorf("%w: %s (%s)", model.ErrMissingPrice, item.Name, item.Mode)
	}
	return price.Decimal.Mul(decimal.NewFromInt(int64(item.Qty))), nil
}

// Line is the display breakdown of one line item.
type Line struct {
	CartID       string              `json:"cartId,omitempty"`
	Item         string              `json:"item"`
	Option       model.PurchaseMode  `json:"option"`
	Qty          int                 `json:"qty"`
	UnitPrice    decimal.NullDecimal `json:"unitPrice"`
	Amount       decimal.Decimal     `json:"amount"`
	MissingPrice bool                `json:"missingPrice,omitempty"`
	InvalidMode  bool                `json:"invalidOption,omitempty"`
}

// Summary is the priced view of a list of line items.
type Summary struct {
	Lines      []Line          `json:"lines"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// Flagged returns the lines that contributed nothing because they could not be priced.
func (s Summary) Flagged() []Line {
	var flagged []Line
	for _, l := range s.Lines {
		if l.MissingPrice || l.InvalidMode {
			flagged = append(flagged, l)
		}
	}
	return flagged
}

// Summarize prices every line. A line that cannot be priced contributes zero
// and is flagged instead of failing the whole summary.
func Summarize(items []model.LineItem) Summary {
	summary := Summary{
		Lines:      make([]Line, 0, len(items)),
		GrandTotal: decimal.Zero,
	}

	for _, item := range items {
		line := Line{
			CartID: item.CartID,
			Item:   item.Name,
			Option: item.Mode,
			Qty:    item.Qty,
			Amount: decimal.Zero,
		}

		unit, err := item.ActivePrice()
		if err != nil {
			line.InvalidMode = true
			summary.Lines = append(summary.Lines, line)
			continue
		}
		line.UnitPrice = unit

		amount, err := ExtendedPrice(item)
		if err != nil {
			line.MissingPrice = true
			summary.Lines = append(summary.Lines, line)
			continue
		}

		line.Amount = amount
		summary.GrandTotal = summary.GrandTotal.Add(amount)
		summary.Lines = append(summary.Lines, line)
	}

	return summary
}

// GrandTotal sums the extended prices of items. An empty list totals zero.
func GrandTotal(items []model.LineItem) decimal.Decimal {
	return Summarize(items).GrandTotal
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry that can be added to a cart.
type Product struct {
	ID        string              `json:"id" db:"id"`
	Name      string              `json:"name" db:"name"`
	PackPrice decimal.NullDecimal `json:"packPrice" db:"pack_price"`
	CasePrice decimal.NullDecimal `json:"casePrice" db:"case_price"`
	PackSize  string              `json:"packSize" db:"pack_size"`
	Packing   string              `json:"packing" db:"packing"`
	CreatedAt time.Time           `json:"createdAt" db:"created_at"`
}

// LineItem snapshots the product into a cart line for the given mode and quantity.
func (p Product) LineItem(mode PurchaseMode, qty int) LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Mode:      mode,
		Qty:       qty,
		PackPrice: p.PackPrice,
		CasePrice: p.CasePrice,
		PackSize:  p.PackSize,
		Packing:   p.Packing,
	}
}

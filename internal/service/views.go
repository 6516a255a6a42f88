package service

import (
	"sales-order-booking/internal/model"
	"sales-order-booking/internal/pricing"
	"sales-order-booking/internal/timefmt"
)

// OrderView is an order record together with its decoded line items and totals.
// When the stored blob cannot be decoded, LineItems is empty and ItemsError
// says why; the rest of the record is still shown.
type OrderView struct {
	model.OrderRecord
	LineItems            []model.LineItem `json:"items"`
	ItemsError           string           `json:"itemsError,omitempty"`
	Summary              pricing.Summary  `json:"summary"`
	ReceivingTimeDisplay string           `json:"receivingTimeDisplay"`
}

// OrderPage is one page of the order listing.
type OrderPage struct {
	Orders     []OrderView `json:"orders"`
	TotalCount int         `json:"totalCount"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

func newOrderView(rec model.OrderRecord) OrderView {
	view := OrderView{OrderRecord: rec, LineItems: []model.LineItem{}}

	items, err := model.DecodeLineItems(rec.Items)
	if err != nil {
		view.ItemsError = err.Error()
	} else {
		view.LineItems = items
	}
	view.Summary = pricing.Summarize(view.LineItems)

	receiving := ""
	if rec.ReceivingTime != nil {
		receiving = *rec.ReceivingTime
	}
	view.ReceivingTimeDisplay = timefmt.Display(receiving)

	return view
}

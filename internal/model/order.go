package model

import (
	"time"
)

// OrderStatus is the review state of a persisted order. Values other than the
// known constants are kept as-is.
type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusApproved OrderStatus = "APPROVED"
)

// OrderRecord is the durable representation of a submitted order.
// Items holds the serialised line items; totals are never stored.
type OrderRecord struct {
	ID            int64       `json:"id" db:"id"`
	StoreName     string      `json:"storeName" db:"store_name"`
	Location      string      `json:"location" db:"location"`
	CustomerName  string      `json:"customerName" db:"customer_name"`
	ContactPerson string      `json:"contactPerson" db:"contact_person"`
	DeliveryDate  string      `json:"deliveryDate" db:"delivery_date"`
	ReceivingTime *string     `json:"receivingTime,omitempty" db:"receiving_time"`
	Remarks       *string     `json:"remarks,omitempty" db:"remarks"`
	Attachment    *string     `json:"attachment,omitempty" db:"attachment"`
	Items         string      `json:"-" db:"orders"`
	Status        OrderStatus `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
}

// OrderFilterField is a column the order listing can be searched by.
type OrderFilterField string

const (
	FilterStoreName    OrderFilterField = "store_name"
	FilterCustomerName OrderFilterField = "customer_name"
	FilterID           OrderFilterField = "id"
	FilterLocation     OrderFilterField = "location"
)

// Valid reports whether f is a searchable column.
func (f OrderFilterField) Valid() bool {
	switch f {
	case FilterStoreName, FilterCustomerName, FilterID, FilterLocation:
		return true
	}
	return false
}

// OrderFilter narrows an order listing. An empty Value matches everything.
type OrderFilter struct {
	Field OrderFilterField
	Value string
}

// OrderQuery describes one page of the order listing.
type OrderQuery struct {
	Filter OrderFilter
	Offset int
	Limit  int
}

// OrderSlice is one page of raw records plus the count of all matching rows.
type OrderSlice struct {
	Records    []OrderRecord
	TotalCount int
}

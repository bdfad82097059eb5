package order

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryType indicates how the customer receives the order.
type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "PICKUP"
	DeliveryDelivery DeliveryType = "DELIVERY"
)

// PaymentStatus is the two-state payment flag on an order.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "PAID"
	PaymentUnpaid PaymentStatus = "UNPAID"
)

// FulfillmentStatus is the two-state delivery flag on an order.
type FulfillmentStatus string

const (
	FulfillmentDelivered    FulfillmentStatus = "DELIVERED"
	FulfillmentNotDelivered FulfillmentStatus = "NOT_DELIVERED"
)

// Order is the aggregate root: header, line items and tag links are written
// together in one transaction.
//
// DeliveryDate is a plain ISO date string (YYYY-MM-DD) and DeliveryTime a
// plain HH:MM string. The board compares them textually against the store's
// calendar day; no timezone conversion is ever applied.
type Order struct {
	ID                uuid.UUID         `json:"id"`
	StoreID           uuid.UUID         `json:"store_id"`
	CustomerID        uuid.UUID         `json:"customer_id"`
	CustomerName      string            `json:"customer_name,omitempty"`
	CustomerPhone     string            `json:"customer_phone,omitempty"`
	DeliveryType      DeliveryType      `json:"delivery_type"`
	DeliveryDate      string            `json:"delivery_date,omitempty"`
	DeliveryTime      string            `json:"delivery_time,omitempty"`
	AddressID         *uuid.UUID        `json:"address_id,omitempty"`
	Items             []*Item           `json:"items,omitempty"`
	Subtotal          float64           `json:"subtotal"`
	ShippingFee       float64           `json:"shipping_fee"`
	Discount          float64           `json:"discount"`
	Total             float64           `json:"total"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`
	Note              string            `json:"note,omitempty"`
	TagIDs            []uuid.UUID       `json:"tag_ids"`
	CreatedBy         uuid.UUID         `json:"created_by"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Item is a single line item. UnitPrice already includes the chosen
// complement option prices on top of the product's base price.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   float64         `json:"unit_price"`
	LineTotal   float64         `json:"line_total"`
	Options     []*ChosenOption `json:"options,omitempty"`
}

// ChosenOption records one complement selection on a line item, denormalized
// by name so the receipt survives later catalog edits.
type ChosenOption struct {
	GroupID    uuid.UUID `json:"group_id"`
	GroupName  string    `json:"group_name"`
	OptionName string    `json:"option_name"`
	Price      float64   `json:"price"`
}

// StatusUpdateRequest flips the payment and/or fulfillment flag; a nil field
// leaves that flag untouched.
type StatusUpdateRequest struct {
	PaymentStatus     *PaymentStatus     `json:"payment_status,omitempty"`
	FulfillmentStatus *FulfillmentStatus `json:"fulfillment_status,omitempty"`
}

// Filters narrows an order listing. Search matches customer name or phone.
type Filters struct {
	Search            string
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus
	TagIDs            []string
	DateFrom          string
	DateTo            string
	Page              int
	PageSize          int
}

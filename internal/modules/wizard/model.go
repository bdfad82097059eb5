// Package wizard drives the 3-step order creation flow: pick a customer,
// set delivery details, then build the item list and submit. The in-progress
// draft lives in a DraftStore keyed by store and user, so an attendant can
// resume a half-built order after a page reload or from another device.
package wizard

import (
	"time"

	"github.com/google/uuid"

	"github.com/comandahub/comanda-backend/internal/modules/order"
)

// Wizard steps. Transitions only move one step at a time; Back keeps every
// field already collected.
const (
	StepCustomer = 1
	StepDelivery = 2
	StepItems    = 3
)

// Draft is the wizard's accumulated state. EditOrderID is set when the draft
// was seeded from an existing order; submission then replaces that order
// instead of creating a new one.
type Draft struct {
	StoreID       uuid.UUID           `json:"store_id"`
	UserID        uuid.UUID           `json:"user_id"`
	Step          int                 `json:"step"`
	EditOrderID   *uuid.UUID          `json:"edit_order_id,omitempty"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName  string              `json:"customer_name,omitempty"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	DeliveryType  order.DeliveryType  `json:"delivery_type,omitempty"`
	DeliveryDate  string              `json:"delivery_date,omitempty"`
	DeliveryTime  string              `json:"delivery_time,omitempty"`
	AddressID     *uuid.UUID          `json:"address_id,omitempty"`
	Items         []*DraftItem        `json:"items"`
	ShippingFee   float64             `json:"shipping_fee"`
	Discount      float64             `json:"discount"`
	PaymentStatus order.PaymentStatus `json:"payment_status,omitempty"`
	Note          string              `json:"note,omitempty"`
	TagIDs        []uuid.UUID         `json:"tag_ids,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// DraftItem mirrors an order line item before submission. UnitPrice already
// includes the chosen complement prices.
type DraftItem struct {
	ProductID   uuid.UUID             `json:"product_id"`
	ProductName string                `json:"product_name"`
	Quantity    int                   `json:"quantity"`
	UnitPrice   float64               `json:"unit_price"`
	LineTotal   float64               `json:"line_total"`
	Options     []*order.ChosenOption `json:"options,omitempty"`
}

// SelectCustomerRequest resolves the customer for Step 1 by phone.
type SelectCustomerRequest struct {
	Phone string `json:"phone"`
}

// DeliveryRequest carries Step 2. For delivery orders either AddressID or
// NewAddress must be present; NewAddress is created on the customer before
// the draft advances.
type DeliveryRequest struct {
	DeliveryType order.DeliveryType `json:"delivery_type"`
	DeliveryDate string             `json:"delivery_date"`
	DeliveryTime string             `json:"delivery_time"`
	AddressID    string             `json:"address_id,omitempty"`
	NewAddress   *NewAddress        `json:"new_address,omitempty"`
}

// NewAddress is an inline address created during Step 2.
type NewAddress struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	CEP          string `json:"cep,omitempty"`
}

// AddItemRequest adds one line item in Step 3. Choices must cover every
// required complement group of the product.
type AddItemRequest struct {
	ProductID string         `json:"product_id"`
	Quantity  int            `json:"quantity"`
	Choices   []OptionChoice `json:"choices,omitempty"`
}

// OptionChoice selects one option from one complement group.
type OptionChoice struct {
	GroupID  string `json:"group_id"`
	OptionID string `json:"option_id"`
}

// SubmitRequest finalizes the draft into an order.
type SubmitRequest struct {
	ShippingFee   float64             `json:"shipping_fee"`
	Discount      float64             `json:"discount"`
	PaymentStatus order.PaymentStatus `json:"payment_status,omitempty"`
	Note          string              `json:"note,omitempty"`
	TagIDs        []string            `json:"tag_ids,omitempty"`
}

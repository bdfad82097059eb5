package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is an item a store sells. ComplementGroupIDs references the option
// groups a buyer walks through when ordering it.
type Product struct {
	ID                 uuid.UUID   `json:"id"`
	StoreID            uuid.UUID   `json:"store_id"`
	Name               string      `json:"name"`
	Description        string      `json:"description,omitempty"`
	BasePrice          float64     `json:"base_price"`
	IsActive           bool        `json:"is_active"`
	ComplementGroupIDs []uuid.UUID `json:"complement_group_ids"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// ComplementGroup is a set of add-on choices attached to products. A required
// group must have one option chosen before the product can enter an order.
type ComplementGroup struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	Name      string    `json:"name"`
	Required  bool      `json:"required"`
	Options   []*Option `json:"options"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Option is one choice inside a complement group, priced additively on top
// of the product's base price.
type Option struct {
	ID              uuid.UUID `json:"id"`
	GroupID         uuid.UUID `json:"group_id"`
	Name            string    `json:"name"`
	AdditionalPrice float64   `json:"additional_price"`
	Position        int       `json:"position"`
}

// CreateProductRequest holds the data for creating or updating a product.
type CreateProductRequest struct {
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	BasePrice          float64  `json:"base_price"`
	ComplementGroupIDs []string `json:"complement_group_ids,omitempty"`
}

// OptionInput is one option row inside a group create/update payload.
type OptionInput struct {
	Name            string  `json:"name"`
	AdditionalPrice float64 `json:"additional_price"`
}

// CreateGroupRequest holds the data for creating or updating a complement
// group; updates replace the full option list.
type CreateGroupRequest struct {
	Name     string        `json:"name"`
	Required bool          `json:"required"`
	Options  []OptionInput `json:"options"`
}

package customer

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer belongs to exactly one store and is looked up by phone at the
// start of every order.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Address is a delivery destination for a customer. Exactly one address per
// customer is flagged principal; the first one created gets the flag
// automatically.
type Address struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	Street       string    `json:"street"`
	Number       string    `json:"number"`
	Complement   string    `json:"complement,omitempty"`
	Neighborhood string    `json:"neighborhood,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	CEP          string    `json:"cep,omitempty"`
	Principal    bool      `json:"principal"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCustomerRequest is the quick-registration payload used when a phone
// lookup finds no match.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateAddressRequest is the payload for adding a delivery address.
type CreateAddressRequest struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	CEP          string `json:"cep,omitempty"`
}

// ErrPhoneTooShort is returned when a phone has fewer than 11 digits after
// stripping formatting.
var ErrPhoneTooShort = errors.New("phone must have at least 11 digits")

// NormalizePhone strips formatting characters and validates length. Lookups
// and stored values always use the normalized form so "(11) 98765-4321" and
// "11987654321" resolve to the same customer.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 11 {
		return "", ErrPhoneTooShort
	}
	return digits, nil
}

package types

import "strings"

// ShippingAddress is the recipient snapshot frozen onto an order header.
// Persisted as a jsonb column via the gorm json serializer.
type ShippingAddress struct {
	RecipientName string  `json:"recipient_name" validate:"required,max=100"`
	Phone         string  `json:"phone" validate:"required,max=30"`
	PostalCode    string  `json:"postal_code" validate:"required,max=10"`
	AddressLine1  string  `json:"address_line1" validate:"required,max=200"`
	AddressLine2  *string `json:"address_line2,omitempty" validate:"omitempty,max=200"`
}

// Validate reports the first missing required field, if any.
func (a ShippingAddress) Validate() string {
	switch {
	case strings.TrimSpace(a.RecipientName) == "":
		return "recipient_name"
	case strings.TrimSpace(a.Phone) == "":
		return "phone"
	case strings.TrimSpace(a.PostalCode) == "":
		return "postal_code"
	case strings.TrimSpace(a.AddressLine1) == "":
		return "address_line1"
	}
	return ""
}

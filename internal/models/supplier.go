package models

// Supplier represents a vendor that can fulfil purchase orders
type Supplier struct {
	ID              string   `json:"supplierID" yaml:"supplierID"`
	Name            string   `json:"name" yaml:"name"`
	IsActive        bool     `json:"isActive" yaml:"isActive"`
	Rating          float64  `json:"rating" yaml:"rating"`
	FulfillmentRate float64  `json:"fulfillmentRate" yaml:"fulfillmentRate"`
	DeliveryTime    int      `json:"deliveryTime" yaml:"deliveryTime"`
	PricePerUnit    *float64 `json:"pricePerUnit,omitempty" yaml:"pricePerUnit,omitempty"`
}

// UsageLogEntry records a single consumption event for a material.
// Usage history is contextual signal only; materials without any
// entries still produce suggestions.
type UsageLogEntry struct {
	MaterialID string  `json:"materialID" yaml:"materialID"`
	Quantity   float64 `json:"quantity" yaml:"quantity"`
	DateUsed   string  `json:"dateUsed" yaml:"dateUsed"`
}

package dto

import (
	"github.com/shopspring/decimal"
)

// ResolvePriceResponse es el resultado de la resolución de precio.
type ResolvePriceResponse struct {
	ProductID       string          `json:"product_id"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	TaxRatePercent  decimal.Decimal `json:"tax_rate_percent"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Source          string          `json:"source"` // client_override | supplier_override | base_price
	EffectiveFrom   string          `json:"effective_from"`
	EffectiveTo     string          `json:"effective_to,omitempty"`
}

// CreatePricingRuleRequest alta de regla de precio (administración).
type CreatePricingRuleRequest struct {
	ProductID       string          `json:"product_id"`
	ClientID        string          `json:"client_id,omitempty"`
	SupplierID      string          `json:"supplier_id,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	TaxRatePercent  decimal.Decimal `json:"tax_rate_percent"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	EffectiveFrom   string          `json:"effective_from"` // RFC 3339
	EffectiveTo     string          `json:"effective_to,omitempty"`
}

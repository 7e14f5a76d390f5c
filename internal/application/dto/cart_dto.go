package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest agrega (o acumula) un producto en el carrito.
type AddCartItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// UpdateCartItemRequest fija la cantidad de una línea.
type UpdateCartItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// PricedLine es una línea del carrito con su aritmética resuelta.
// Si la resolución de precio falla, la línea se degrada a precio cero con
// PriceMissing en true (render best-effort): el checkout rechaza carritos
// con líneas degradadas antes de comprometer dinero.
type PricedLine struct {
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TaxRatePercent  decimal.Decimal `json:"tax_rate_percent"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineSubtotal    decimal.Decimal `json:"line_subtotal"`
	LineDiscount    decimal.Decimal `json:"line_discount"`
	LineTax         decimal.Decimal `json:"line_tax"`
	LineTotal       decimal.Decimal `json:"line_total"`
	PriceMissing    bool            `json:"price_missing,omitempty"`
}

// PricedCart es el carrito valorizado: líneas + agregados (sumas simples sobre líneas).
type PricedCart struct {
	ClientID   string          `json:"client_id"`
	Items      []PricedLine    `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

package dto

import "github.com/shopspring/decimal"

// AddInvoiceItemRequest agrega una línea a una factura en estado QUOTE.
// DiscountPercent explícito pisa el descuento de la regla de precio resuelta;
// si se omite, se usa el de la regla.
type AddInvoiceItemRequest struct {
	ProductID       string           `json:"product_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
}

// SetInvoiceDiscountRequest fija el descuento a nivel factura (0–100).
type SetInvoiceDiscountRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

// InvoiceItemResponse línea de factura materializada.
type InvoiceItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TaxRatePercent  decimal.Decimal `json:"tax_rate_percent"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineSubtotal    decimal.Decimal `json:"line_subtotal"`
	LineDiscount    decimal.Decimal `json:"line_discount"`
	LineTax         decimal.Decimal `json:"line_tax"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// InvoiceResponse cabecera + líneas.
type InvoiceResponse struct {
	ID              string                `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	ClientID        string                `json:"client_id"`
	Status          string                `json:"status"`
	DiscountPercent decimal.Decimal       `json:"discount_percent"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxTotal        decimal.Decimal       `json:"tax_total"`
	DiscountTotal   decimal.Decimal       `json:"discount_total"`
	GrandTotal      decimal.Decimal       `json:"grand_total"`
	Items           []InvoiceItemResponse `json:"items"`
}

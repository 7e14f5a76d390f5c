package dto

import "github.com/shopspring/decimal"

// CreateOrderRequest crea una orden desde el carrito activo del cliente.
type CreateOrderRequest struct {
	Notes string `json:"notes,omitempty"`
}

// UpdateOrderStatusRequest solicita una transición de estado.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse snapshot de línea congelado al crear la orden.
type OrderItemResponse struct {
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

// OrderResponse orden con su factura adjunta (si existe).
type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"order_number"`
	ClientID    string              `json:"client_id"`
	Status      string              `json:"status"`
	Notes       string              `json:"notes,omitempty"`
	InvoiceID   string              `json:"invoice_id,omitempty"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	TaxTotal    decimal.Decimal     `json:"tax_total"`
	GrandTotal  decimal.Decimal     `json:"grand_total"`
	Items       []OrderItemResponse `json:"items"`
	Invoice     *InvoiceResponse    `json:"invoice,omitempty"`
}

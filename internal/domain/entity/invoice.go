package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura. Solo en QUOTE la factura es editable (ítems y descuento).
const (
	InvoiceStatusQuote     = "QUOTE"
	InvoiceStatusIssued    = "ISSUED"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED" // terminal
)

// Invoice representa la cabecera de una factura. Los totales son siempre la
// recomputación determinista sobre los ítems actuales + DiscountPercent;
// nunca se acumulan por deltas.
type Invoice struct {
	ID              string
	InvoiceNumber   string // único, secuencial por año (INV-2026-000045)
	ClientID        string
	Status          string
	DiscountPercent decimal.Decimal // descuento a nivel factura, 0–100
	Subtotal        decimal.Decimal
	TaxTotal        decimal.Decimal
	DiscountTotal   decimal.Decimal // descuentos por ítem + descuento de factura
	GrandTotal      decimal.Decimal
	IssuedAt        *time.Time
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Editable indica si la factura acepta cambios de ítems o descuento.
func (i *Invoice) Editable() bool {
	return i.Status == InvoiceStatusQuote
}

// InvoiceItem es una línea de factura con su aritmética completa materializada.
// Invariante: LineTotal = LineSubtotal + LineTax − LineDiscount, con el impuesto
// calculado sobre la base descontada.
type InvoiceItem struct {
	ID              string
	InvoiceID       string
	ProductID       string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	TaxRatePercent  decimal.Decimal
	DiscountPercent decimal.Decimal
	LineSubtotal    decimal.Decimal
	LineDiscount    decimal.Decimal
	LineTax         decimal.Decimal
	LineTotal       decimal.Decimal
	CreatedAt       time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order representa una orden de compra creada desde el carrito de un cliente.
// Los precios de los ítems quedan congelados al crearla (no se re-resuelven si
// las reglas de precio cambian después); los totales se espejan desde su factura
// en cada recomputación.
type Order struct {
	ID          string
	OrderNumber string // ORD-2026-000123
	ClientID    string
	Status      string // máquina de estados en internal/domain/order
	Notes       string
	InvoiceID   string // referencia 1:1; "" si la creación de la factura falló (recuperable)
	Subtotal    decimal.Decimal
	TaxTotal    decimal.Decimal
	GrandTotal  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem es el snapshot de una línea al momento de crear la orden.
type OrderItem struct {
	ID              string
	OrderID         string
	ProductID       string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	TaxRatePercent  decimal.Decimal
	DiscountPercent decimal.Decimal
	LineSubtotal    decimal.Decimal
	LineDiscount    decimal.Decimal
	LineTax         decimal.Decimal
	LineTotal       decimal.Decimal
}

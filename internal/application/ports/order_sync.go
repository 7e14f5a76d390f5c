package ports

import "github.com/shopspring/decimal"

// Tipos de evento de sincronización Factura → Orden.
const (
	EventInvoiceTotals = "invoice.totals_recomputed"
	EventInvoiceIssued = "invoice.issued"
	EventInvoicePaid   = "invoice.paid"
)

// OrderSyncEvent es la notificación best-effort que emite facturación cuando un cambio
// en la factura debe reflejarse en la orden enlazada. La publicación nunca bloquea ni
// falla la escritura que la origina (at-most-once): el consumidor reintenta acotado y
// las fallas terminales solo se registran en el log.
type OrderSyncEvent struct {
	Type      string
	InvoiceID string

	// Solo para EventInvoiceTotals.
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// OrderSyncPublisher es el puerto de salida de facturación hacia el despachador de eventos.
type OrderSyncPublisher interface {
	Publish(event OrderSyncEvent)
}

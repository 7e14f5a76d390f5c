package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y sus ítems.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	ListItems(invoiceID string) ([]*entity.InvoiceItem, error)
	// UpdateTotals persiste los totales recomputados y el descuento de factura.
	UpdateTotals(invoice *entity.Invoice) error
	// UpdateStatus persiste el cambio de estado (y IssuedAt/PaidAt cuando aplique).
	UpdateStatus(invoice *entity.Invoice) error
}

// OrderRepository define el puerto de persistencia para Order y sus snapshots de línea.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateItem(item *entity.OrderItem) error
	GetByID(id string) (*entity.Order, error)
	GetByInvoiceID(invoiceID string) (*entity.Order, error)
	ListItems(orderID string) ([]*entity.OrderItem, error)
	ListByClient(clientID string, limit, offset int) ([]*entity.Order, error)
	UpdateStatus(order *entity.Order) error
	// SetInvoice enlaza la factura recién creada (order.invoice_id, una sola vez).
	SetInvoice(orderID, invoiceID string) error
	// UpdateTotals espeja los totales propagados desde la factura.
	UpdateTotals(order *entity.Order) error
}

// SequenceRepository asigna consecutivos atómicos por (entidad, año).
// La asignación debe ser colisión-safe bajo creación concurrente (contador dedicado,
// nunca contar filas existentes).
type SequenceRepository interface {
	Next(entityKind string, year int) (int64, error)
}

// AuditRepository persiste eventos de auditoría (escritura fire-and-forget).
type AuditRepository interface {
	Record(event *entity.AuditEvent) error
}

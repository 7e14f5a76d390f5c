package orders

import (
	"context"

	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks con repositorios atados a una transacción.
// La creación de la orden y la de su factura espejo son DOS transacciones
// deliberadamente separadas: si la factura falla, la orden ya escrita queda en
// PENDING sin factura (hueco de falla parcial conocido, recuperable reintentando
// la creación de la factura, nunca recreando la orden).
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

package billing

import (
	"context"

	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con un repositorio de facturas atado a una transacción.
// Agregar un ítem y recomputar totales es una sola transacción lógica: recompute
// siempre re-lee todos los ítems frescos dentro de la tx (nunca acumula deltas),
// de modo que un AddItem y un SetDiscount concurrentes serializan sin perder
// actualizaciones.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

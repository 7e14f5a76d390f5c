package events_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/infrastructure/events"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

// recordingApplier cuenta las aplicaciones y puede fallar las primeras n veces.
type recordingApplier struct {
	mu        sync.Mutex
	issued    []string
	paid      []string
	totals    []string
	failFirst int
	calls     int
}

func (a *recordingApplier) tryFail() error {
	a.calls++
	if a.calls <= a.failFirst {
		return errors.New("orden aún no visible")
	}
	return nil
}

func (a *recordingApplier) ApplyInvoiceIssued(invoiceID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.tryFail(); err != nil {
		return err
	}
	a.issued = append(a.issued, invoiceID)
	return nil
}

func (a *recordingApplier) ApplyInvoicePaid(invoiceID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.tryFail(); err != nil {
		return err
	}
	a.paid = append(a.paid, invoiceID)
	return nil
}

func (a *recordingApplier) ApplyInvoiceTotals(invoiceID string, _, _, _ decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.tryFail(); err != nil {
		return err
	}
	a.totals = append(a.totals, invoiceID)
	return nil
}

func (a *recordingApplier) snapshot() (issued, paid, totals []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.issued...), append([]string(nil), a.paid...), append([]string(nil), a.totals...)
}

func TestDispatcher_EntregaEnOrden(t *testing.T) {
	applier := &recordingApplier{}
	d := events.NewDispatcher(applier, logger.Nop(), 8, 3)
	d.Start()

	d.Publish(ports.OrderSyncEvent{Type: ports.EventInvoiceIssued, InvoiceID: "inv-1"})
	d.Publish(ports.OrderSyncEvent{Type: ports.EventInvoiceTotals, InvoiceID: "inv-1",
		Subtotal: decimal.NewFromInt(100), TaxTotal: decimal.NewFromInt(19), GrandTotal: decimal.NewFromInt(119)})
	d.Publish(ports.OrderSyncEvent{Type: ports.EventInvoicePaid, InvoiceID: "inv-1"})
	d.Stop()

	issued, paid, totals := applier.snapshot()
	assert.Equal(t, []string{"inv-1"}, issued)
	assert.Equal(t, []string{"inv-1"}, paid)
	assert.Equal(t, []string{"inv-1"}, totals)
}

// TestDispatcher_ReintentaAcotado: una falla transitoria se reintenta y termina
// aplicándose dentro del presupuesto de intentos.
func TestDispatcher_ReintentaAcotado(t *testing.T) {
	applier := &recordingApplier{failFirst: 2}
	d := events.NewDispatcher(applier, logger.Nop(), 8, 3)
	d.Start()

	d.Publish(ports.OrderSyncEvent{Type: ports.EventInvoiceIssued, InvoiceID: "inv-1"})
	d.Stop()

	issued, _, _ := applier.snapshot()
	require.Equal(t, []string{"inv-1"}, issued)
	assert.Equal(t, 3, applier.calls, "dos fallas + un éxito")
}

// TestDispatcher_AgotaReintentosYSigue: una falla permanente no bloquea el worker;
// el evento siguiente se procesa normal.
func TestDispatcher_AgotaReintentosYSigue(t *testing.T) {
	applier := &recordingApplier{failFirst: 2}
	d := events.NewDispatcher(applier, logger.Nop(), 8, 2) // presupuesto menor que las fallas
	d.Start()

	d.Publish(ports.OrderSyncEvent{Type: ports.EventInvoiceIssued, InvoiceID: "inv-perdida"})
	d.Publish(ports.OrderSyncEvent{Type: ports.EventInvoicePaid, InvoiceID: "inv-2"})
	d.Stop()

	issued, paid, _ := applier.snapshot()
	assert.Empty(t, issued, "el primer evento agotó sus 2 intentos")
	assert.Equal(t, []string{"inv-2"}, paid)
}

// TestDispatcher_DescartaConBufferLleno: sin worker corriendo, el buffer se llena
// y Publish no bloquea (at-most-once).
func TestDispatcher_DescartaConBufferLleno(t *testing.T) {
	applier := &recordingApplier{}
	d := events.NewDispatcher(applier, logger.Nop(), 2, 1)
	// Sin Start: nada consume.

	for i := 0; i < 10; i++ {
		d.Publish(ports.OrderSyncEvent{Type: ports.EventInvoicePaid, InvoiceID: "inv-x"})
	}
	d.Start()
	d.Stop()

	_, paid, _ := applier.snapshot()
	assert.Len(t, paid, 2, "solo caben los del buffer; el resto se descartó")
}

func TestDispatcher_TipoDesconocidoNoRompe(t *testing.T) {
	applier := &recordingApplier{}
	d := events.NewDispatcher(applier, logger.Nop(), 4, 1)
	d.Start()
	d.Publish(ports.OrderSyncEvent{Type: "evento.raro", InvoiceID: "inv-1"})
	d.Publish(ports.OrderSyncEvent{Type: ports.EventInvoicePaid, InvoiceID: "inv-1"})
	d.Stop()

	_, paid, _ := applier.snapshot()
	assert.Equal(t, []string{"inv-1"}, paid)
}

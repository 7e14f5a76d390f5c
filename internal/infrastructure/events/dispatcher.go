package events

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

var _ ports.OrderSyncPublisher = (*Dispatcher)(nil)

// Applier aplica un evento de factura sobre la orden enlazada. Lo implementa el
// caso de uso de órdenes; cada aplicación debe ser idempotente porque el
// despachador reintenta.
type Applier interface {
	ApplyInvoiceIssued(invoiceID string) error
	ApplyInvoicePaid(invoiceID string) error
	ApplyInvoiceTotals(invoiceID string, subtotal, taxTotal, grandTotal decimal.Decimal) error
}

// Dispatcher despacha eventos Factura → Orden por un canal con buffer acotado y
// un solo worker. Entrega at-most-once: Publish nunca bloquea y con el buffer
// lleno el evento se descarta con un warn (la orden se repara con el recompute
// explícito de la factura). El worker reintenta acotado con backoff corto antes
// de rendirse y dejar la falla en el log.
type Dispatcher struct {
	applier    Applier
	log        *logger.Logger
	ch         chan ports.OrderSyncEvent
	maxRetries int

	stopOnce sync.Once
	done     chan struct{}
}

// NewDispatcher construye el despachador. bufferSize acota la cola en memoria;
// maxRetries es el número de intentos por evento (mínimo 1).
func NewDispatcher(applier Applier, log *logger.Logger, bufferSize, maxRetries int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Dispatcher{
		applier:    applier,
		log:        log,
		ch:         make(chan ports.OrderSyncEvent, bufferSize),
		maxRetries: maxRetries,
		done:       make(chan struct{}),
	}
}

// Start arranca el worker de consumo.
func (d *Dispatcher) Start() {
	go d.consume()
}

// Stop cierra la cola y espera a que el worker drene lo pendiente.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.ch) })
	<-d.done
}

// Publish encola el evento sin bloquear. Con el buffer lleno, se descarta.
func (d *Dispatcher) Publish(event ports.OrderSyncEvent) {
	select {
	case d.ch <- event:
	default:
		d.log.Warn().
			Str("event", event.Type).
			Str("invoice_id", event.InvoiceID).
			Msg("cola de sincronización llena, evento descartado")
	}
}

func (d *Dispatcher) consume() {
	defer close(d.done)
	for event := range d.ch {
		d.apply(event)
	}
}

func (d *Dispatcher) apply(event ports.OrderSyncEvent) {
	var err error
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		if err = d.applyOnce(event); err == nil {
			return
		}
		if attempt < d.maxRetries {
			time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
		}
	}
	d.log.Error().Err(err).
		Str("event", event.Type).
		Str("invoice_id", event.InvoiceID).
		Int("attempts", d.maxRetries).
		Msg("evento de sincronización agotó reintentos")
}

func (d *Dispatcher) applyOnce(event ports.OrderSyncEvent) error {
	switch event.Type {
	case ports.EventInvoiceIssued:
		return d.applier.ApplyInvoiceIssued(event.InvoiceID)
	case ports.EventInvoicePaid:
		return d.applier.ApplyInvoicePaid(event.InvoiceID)
	case ports.EventInvoiceTotals:
		return d.applier.ApplyInvoiceTotals(event.InvoiceID, event.Subtotal, event.TaxTotal, event.GrandTotal)
	}
	d.log.Warn().Str("event", event.Type).Msg("tipo de evento desconocido, ignorado")
	return nil
}

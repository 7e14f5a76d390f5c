package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/application/billing"
	"github.com/jhoicas/comercio-api/internal/application/cart"
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	domorder "github.com/jhoicas/comercio-api/internal/domain/order"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

// Claves de secuencia para consecutivos por año.
const (
	seqOrder   = "order"
	seqInvoice = "invoice"
)

// UseCase orquesta el ciclo de vida de la orden: creación desde el carrito
// valorizado, transiciones de estado con restricción por rol, y la aplicación de
// los eventos de sincronización que emite facturación.
type UseCase struct {
	orders   repository.OrderRepository
	invoices repository.InvoiceRepository
	cartUC   *cart.UseCase
	tx       TxRunner
	audit    ports.AuditSink
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	cartUC *cart.UseCase,
	tx TxRunner,
	audit ports.AuditSink,
	log *logger.Logger,
) *UseCase {
	return &UseCase{orders: orders, invoices: invoices, cartUC: cartUC, tx: tx, audit: audit, log: log}
}

// CreateFromCart crea una orden desde el carrito activo del cliente:
//  1. valoriza el carrito (falla con ErrEmptyCart si no hay líneas y con
//     ErrPricingNotFound si alguna línea quedó degradada sin precio, sin
//     persistir nada: la degradación a cero es solo para visualizar el carrito,
//     nunca para comprometer dinero);
//  2. asigna consecutivo y persiste la orden en PENDING con los precios congelados;
//  3. crea sincrónicamente la factura espejo en QUOTE (descuento de factura cero),
//     la enlaza y mueve la orden a INVOICE_CREATED;
//  4. vacía el carrito.
//
// Si la creación de la factura falla después de escribir la orden, la orden queda
// en PENDING sin factura y el error se retorna: el caller recupera reintentando la
// factura, no recreando la orden.
func (uc *UseCase) CreateFromCart(ctx context.Context, clientID, notes string) (*dto.OrderResponse, error) {
	priced, err := uc.cartUC.PriceCart(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if len(priced.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	for _, line := range priced.Items {
		if line.PriceMissing {
			return nil, fmt.Errorf("producto %s sin precio vigente: %w", line.ProductID, domain.ErrPricingNotFound)
		}
	}

	now := time.Now()
	year := now.Year()
	ord := &entity.Order{
		ID:         uuid.New().String(),
		ClientID:   clientID,
		Status:     string(domorder.StatusPending),
		Notes:      notes,
		Subtotal:   priced.Subtotal,
		TaxTotal:   priced.TaxTotal,
		GrandTotal: priced.GrandTotal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	orderItems := make([]*entity.OrderItem, 0, len(priced.Items))
	for _, line := range priced.Items {
		orderItems = append(orderItems, &entity.OrderItem{
			ID:              uuid.New().String(),
			OrderID:         ord.ID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			TaxRatePercent:  line.TaxRatePercent,
			DiscountPercent: line.DiscountPercent,
			LineSubtotal:    line.LineSubtotal,
			LineDiscount:    line.LineDiscount,
			LineTax:         line.LineTax,
			LineTotal:       line.LineTotal,
		})
	}

	// Transacción 1: consecutivo + orden PENDING con snapshots congelados.
	err = uc.tx.RunOrder(ctx, func(orderRepo repository.OrderRepository, _ repository.InvoiceRepository, seqRepo repository.SequenceRepository) error {
		n, err := seqRepo.Next(seqOrder, year)
		if err != nil {
			return err
		}
		ord.OrderNumber = formatNumber("ORD", year, n)
		if err := orderRepo.Create(ord); err != nil {
			return err
		}
		for _, item := range orderItems {
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("crear orden: %w", err)
	}

	// Transacción 2: factura espejo en QUOTE, enlace y PENDING → INVOICE_CREATED.
	inv, invoiceItems, err := uc.createDraftInvoice(ctx, ord, orderItems, now)
	if err != nil {
		uc.log.Error().Err(err).
			Str("order_id", ord.ID).
			Str("order_number", ord.OrderNumber).
			Msg("orden escrita pero la creación de la factura falló; queda en PENDING sin factura")
		return nil, fmt.Errorf("crear factura de la orden %s: %w", ord.OrderNumber, err)
	}
	ord.InvoiceID = inv.ID
	ord.Status = string(domorder.StatusInvoiceCreated)

	// El carrito se vacía después del commit; una falla aquí no invalida la orden.
	if err := uc.cartUC.Clear(ctx, clientID); err != nil {
		uc.log.Warn().Err(err).Str("client_id", clientID).Msg("no se pudo vaciar el carrito tras crear la orden")
	}

	uc.recordAudit(clientID, entity.RoleClient, "order.create", ord.ID, map[string]interface{}{
		"order_number": ord.OrderNumber, "invoice_id": inv.ID,
	})

	resp := uc.toResponse(ord, orderItems)
	resp.Invoice = billing.ToInvoiceResponse(inv, invoiceItems)
	return resp, nil
}

func (uc *UseCase) createDraftInvoice(ctx context.Context, ord *entity.Order, orderItems []*entity.OrderItem, now time.Time) (*entity.Invoice, []*entity.InvoiceItem, error) {
	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		ClientID:        ord.ClientID,
		Status:          entity.InvoiceStatusQuote,
		DiscountPercent: decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	invoiceItems := make([]*entity.InvoiceItem, 0, len(orderItems))
	for _, item := range orderItems {
		invoiceItems = append(invoiceItems, &entity.InvoiceItem{
			ID:              uuid.New().String(),
			InvoiceID:       inv.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			TaxRatePercent:  item.TaxRatePercent,
			DiscountPercent: item.DiscountPercent,
			LineSubtotal:    item.LineSubtotal,
			LineDiscount:    item.LineDiscount,
			LineTax:         item.LineTax,
			LineTotal:       item.LineTotal,
			CreatedAt:       now,
		})
	}
	inv.Subtotal, inv.TaxTotal, inv.DiscountTotal, inv.GrandTotal = billing.ComputeTotals(invoiceItems, inv.DiscountPercent)

	err := uc.tx.RunOrder(ctx, func(orderRepo repository.OrderRepository, invoiceRepo repository.InvoiceRepository, seqRepo repository.SequenceRepository) error {
		n, err := seqRepo.Next(seqInvoice, now.Year())
		if err != nil {
			return err
		}
		inv.InvoiceNumber = formatNumber("INV", now.Year(), n)
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range invoiceItems {
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		if err := orderRepo.SetInvoice(ord.ID, inv.ID); err != nil {
			return err
		}
		linked := *ord
		linked.InvoiceID = inv.ID
		linked.Status = string(domorder.StatusInvoiceCreated)
		return orderRepo.UpdateStatus(&linked)
	})
	if err != nil {
		return nil, nil, err
	}
	return inv, invoiceItems, nil
}

// GetOrder devuelve la orden con sus snapshots y la factura adjunta si existe.
func (uc *UseCase) GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	ord, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orders.ListItems(orderID)
	if err != nil {
		return nil, err
	}
	resp := uc.toResponse(ord, items)
	if ord.InvoiceID != "" {
		inv, err := uc.invoices.GetByID(ord.InvoiceID)
		if err == nil && inv != nil {
			invoiceItems, _ := uc.invoices.ListItems(inv.ID)
			resp.Invoice = billing.ToInvoiceResponse(inv, invoiceItems)
		}
	}
	return resp, nil
}

// UpdateStatus aplica una transición solicitada por un actor. La restricción por
// rol y la de propiedad se evalúan en el mismo punto que la legalidad del
// movimiento: un cliente solo puede cancelar desde PENDING, y solo sus propias
// órdenes (actorClientID). Al entrar en DELIVERED, si la factura enlazada ya
// está PAID, la orden se auto-completa de inmediato (regla simétrica al evento de
// pago, porque pago y entrega pueden llegar en cualquier orden).
func (uc *UseCase) UpdateStatus(ctx context.Context, orderID, newStatus, actorRole, actorClientID string) (*entity.Order, error) {
	ord, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, domain.ErrNotFound
	}
	if actorRole == entity.RoleClient && ord.ClientID != actorClientID {
		return nil, domain.ErrForbidden
	}

	from := domorder.Status(ord.Status)
	to := domorder.Status(newStatus)
	if !to.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !domorder.AllowedForRole(actorRole, from, to) {
		return nil, domain.ErrForbidden
	}
	if err := domorder.Transition(from, to); err != nil {
		return nil, err
	}

	ord.Status = string(to)
	if err := uc.orders.UpdateStatus(ord); err != nil {
		return nil, err
	}
	uc.recordAudit(ord.ClientID, actorRole, "order.update_status", ord.ID, map[string]interface{}{
		"from": string(from), "to": string(to),
	})

	if to == domorder.StatusDelivered && ord.InvoiceID != "" {
		inv, err := uc.invoices.GetByID(ord.InvoiceID)
		if err != nil {
			uc.log.Warn().Err(err).Str("order_id", ord.ID).Msg("no se pudo consultar la factura para auto-completar")
			return ord, nil
		}
		if inv != nil && inv.Status == entity.InvoiceStatusPaid {
			if err := uc.complete(ord); err != nil {
				uc.log.Error().Err(err).Str("order_id", ord.ID).Msg("auto-completar tras entrega falló")
			}
		}
	}
	return ord, nil
}

// ListByClient lista las órdenes de un cliente.
func (uc *UseCase) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Order, error) {
	return uc.orders.ListByClient(clientID, limit, offset)
}

// ── consumidores de eventos de facturación ────────────────────────────────────
// Cada dirección (pago, entrega) implementa su chequeo de auto-completado de forma
// independiente: cualquiera de los dos eventos puede llegar primero y ambos órdenes
// deben converger al mismo estado final.

// ApplyInvoiceIssued mueve la orden enlazada a INVOICE_ISSUED. Idempotente: si la
// orden ya pasó ese estado, es un no-op.
func (uc *UseCase) ApplyInvoiceIssued(invoiceID string) error {
	ord, err := uc.orders.GetByInvoiceID(invoiceID)
	if err != nil {
		return err
	}
	if ord == nil {
		return fmt.Errorf("factura %s sin orden enlazada", invoiceID)
	}
	from := domorder.Status(ord.Status)
	if !domorder.CanTransition(from, domorder.StatusInvoiceIssued) {
		return nil // ya avanzó (o terminal): no-op
	}
	ord.Status = string(domorder.StatusInvoiceIssued)
	return uc.orders.UpdateStatus(ord)
}

// ApplyInvoicePaid auto-completa la orden si ya fue entregada; en cualquier otro
// estado el pago no mueve la orden (la entrega hará el chequeo simétrico).
func (uc *UseCase) ApplyInvoicePaid(invoiceID string) error {
	ord, err := uc.orders.GetByInvoiceID(invoiceID)
	if err != nil {
		return err
	}
	if ord == nil {
		return fmt.Errorf("factura %s sin orden enlazada", invoiceID)
	}
	if domorder.Status(ord.Status) != domorder.StatusDelivered {
		return nil
	}
	return uc.complete(ord)
}

// ApplyInvoiceTotals espeja en la orden los totales recomputados de su factura.
func (uc *UseCase) ApplyInvoiceTotals(invoiceID string, subtotal, taxTotal, grandTotal decimal.Decimal) error {
	ord, err := uc.orders.GetByInvoiceID(invoiceID)
	if err != nil {
		return err
	}
	if ord == nil {
		return nil // factura aún no enlazada a ninguna orden
	}
	ord.Subtotal = subtotal
	ord.TaxTotal = taxTotal
	ord.GrandTotal = grandTotal
	return uc.orders.UpdateTotals(ord)
}

func (uc *UseCase) complete(ord *entity.Order) error {
	ord.Status = string(domorder.StatusCompleted)
	if err := uc.orders.UpdateStatus(ord); err != nil {
		return err
	}
	uc.recordAudit(ord.ClientID, entity.RoleEmployee, "order.auto_complete", ord.ID, nil)
	return nil
}

func (uc *UseCase) toResponse(ord *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:          ord.ID,
		OrderNumber: ord.OrderNumber,
		ClientID:    ord.ClientID,
		Status:      ord.Status,
		Notes:       ord.Notes,
		InvoiceID:   ord.InvoiceID,
		Subtotal:    ord.Subtotal,
		TaxTotal:    ord.TaxTotal,
		GrandTotal:  ord.GrandTotal,
		Items:       make([]dto.OrderItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			TaxRatePercent:  item.TaxRatePercent,
			DiscountPercent: item.DiscountPercent,
			LineSubtotal:    item.LineSubtotal,
			LineDiscount:    item.LineDiscount,
			LineTax:         item.LineTax,
			LineTotal:       item.LineTotal,
		})
	}
	return resp
}

func (uc *UseCase) recordAudit(actorID, role, action, orderID string, detail map[string]interface{}) {
	var raw json.RawMessage
	if detail != nil {
		raw, _ = json.Marshal(detail)
	}
	uc.audit.Record(entity.AuditEvent{
		ActorID:    actorID,
		ActorRole:  role,
		Action:     action,
		EntityType: "order",
		EntityID:   orderID,
		Detail:     raw,
	})
}

func formatNumber(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, n)
}

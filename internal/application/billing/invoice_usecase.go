package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appPricing "github.com/jhoicas/comercio-api/internal/application/pricing"
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/pricing"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// InvoiceUseCase es el agregador de facturas: altas de ítems, descuento de factura,
// recomputación de totales y transiciones de estado (emitir, marcar pagada).
// Los totales son siempre la recomputación determinista sobre los ítems actuales;
// cada cambio concluye con recompute dentro de la misma transacción.
type InvoiceUseCase struct {
	invoices repository.InvoiceRepository
	resolver *appPricing.Resolver
	tx       TxRunner
	sync     ports.OrderSyncPublisher
	audit    ports.AuditSink
	log      *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoices repository.InvoiceRepository,
	resolver *appPricing.Resolver,
	tx TxRunner,
	sync ports.OrderSyncPublisher,
	audit ports.AuditSink,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, resolver: resolver, tx: tx, sync: sync, audit: audit, log: log}
}

// ComputeTotals aplica el algoritmo de agregación de la factura sobre sus ítems:
// sumas por línea, descuento de factura sobre el subtotal post-descuento-de-ítems,
// y grandTotal = subtotal + taxTotal − discountTotal. Lo usan tanto recompute como
// la creación de la factura espejo de una orden, para que sean bit a bit consistentes.
func ComputeTotals(items []*entity.InvoiceItem, invoiceDiscountPercent decimal.Decimal) (subtotal, taxTotal, discountTotal, grandTotal decimal.Decimal) {
	subtotal, taxTotal = decimal.Zero, decimal.Zero
	itemDiscountTotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineSubtotal)
		taxTotal = taxTotal.Add(item.LineTax)
		itemDiscountTotal = itemDiscountTotal.Add(item.LineDiscount)
	}
	invoiceDiscountAmount := subtotal.Sub(itemDiscountTotal).Mul(invoiceDiscountPercent).Div(hundred)
	discountTotal = itemDiscountTotal.Add(invoiceDiscountAmount)
	grandTotal = subtotal.Add(taxTotal).Sub(discountTotal)
	return subtotal, taxTotal, discountTotal, grandTotal
}

// AddItem agrega una línea a una factura en estado QUOTE y recomputa totales en la
// misma transacción. El descuento explícito pisa el de la regla de precio resuelta;
// si es nil se usa el de la regla (permite descontar una línea puntual sin tocar
// las reglas globales).
func (uc *InvoiceUseCase) AddItem(ctx context.Context, invoiceID, productID string, qty decimal.Decimal, discountOverride *decimal.Decimal) (*entity.InvoiceItem, error) {
	if invoiceID == "" || productID == "" || !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if discountOverride != nil && !percentInRange(*discountOverride) {
		return nil, domain.ErrInvalidInput
	}

	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !inv.Editable() {
		return nil, domain.ErrInvoiceNotEditable
	}

	// A diferencia del carrito, aquí la resolución es estricta: sin regla no hay línea.
	resolvedPrice, err := uc.resolver.Resolve(ctx, productID, inv.ClientID, time.Now())
	if err != nil {
		return nil, err
	}
	discountPercent := resolvedPrice.DiscountPercent
	if discountOverride != nil {
		discountPercent = *discountOverride
	}
	computed := pricing.ComputeLine(qty, resolvedPrice.Price, resolvedPrice.TaxRatePercent, discountPercent)
	item := &entity.InvoiceItem{
		ID:              uuid.New().String(),
		InvoiceID:       inv.ID,
		ProductID:       productID,
		Quantity:        qty,
		UnitPrice:       resolvedPrice.Price,
		TaxRatePercent:  resolvedPrice.TaxRatePercent,
		DiscountPercent: discountPercent,
		LineSubtotal:    computed.Subtotal,
		LineDiscount:    computed.Discount,
		LineTax:         computed.Tax,
		LineTotal:       computed.Total,
		CreatedAt:       time.Now(),
	}

	err = uc.tx.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.CreateItem(item); err != nil {
			return err
		}
		return recompute(invoiceRepo, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.publishTotals(inv)
	uc.recordAudit(inv, "invoice.add_item", map[string]interface{}{
		"product_id": productID, "quantity": qty.String(),
	})
	return item, nil
}

// SetDiscount fija el descuento a nivel factura (0–100) y recomputa totales.
func (uc *InvoiceUseCase) SetDiscount(ctx context.Context, invoiceID string, percent decimal.Decimal) (*entity.Invoice, error) {
	if invoiceID == "" || !percentInRange(percent) {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !inv.Editable() {
		return nil, domain.ErrInvoiceNotEditable
	}

	inv.DiscountPercent = percent
	err = uc.tx.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		return recompute(invoiceRepo, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.publishTotals(inv)
	uc.recordAudit(inv, "invoice.set_discount", map[string]interface{}{"percent": percent.String()})
	return inv, nil
}

// Recompute re-deriva los totales desde los ítems actuales. Es idempotente: sin
// cambios de ítems, dos llamadas producen totales idénticos.
func (uc *InvoiceUseCase) Recompute(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	err = uc.tx.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		return recompute(invoiceRepo, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.publishTotals(inv)
	return inv, nil
}

// Issue emite la factura (QUOTE → ISSUED) y notifica a la orden enlazada.
// La notificación es best-effort: su falla no revierte la emisión.
func (uc *InvoiceUseCase) Issue(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.InvoiceStatusQuote {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	inv.Status = entity.InvoiceStatusIssued
	inv.IssuedAt = &now
	if err := uc.invoices.UpdateStatus(inv); err != nil {
		return nil, err
	}

	uc.sync.Publish(ports.OrderSyncEvent{Type: ports.EventInvoiceIssued, InvoiceID: inv.ID})
	uc.recordAudit(inv, "invoice.issue", nil)
	return inv, nil
}

// MarkPaid marca la factura como pagada (ISSUED → PAID). Si la orden enlazada ya
// está en DELIVERED, el consumidor del evento la auto-completa.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.InvoiceStatusIssued {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidAt = &now
	if err := uc.invoices.UpdateStatus(inv); err != nil {
		return nil, err
	}

	uc.sync.Publish(ports.OrderSyncEvent{Type: ports.EventInvoicePaid, InvoiceID: inv.ID})
	uc.recordAudit(inv, "invoice.mark_paid", nil)
	return inv, nil
}

// GetInvoice devuelve la factura con sus líneas.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoices.ListItems(invoiceID)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv, items), nil
}

// ToInvoiceResponse arma el DTO de factura (también lo usa órdenes para adjuntarla).
func ToInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID,
		Status:          inv.Status,
		DiscountPercent: inv.DiscountPercent,
		Subtotal:        inv.Subtotal,
		TaxTotal:        inv.TaxTotal,
		DiscountTotal:   inv.DiscountTotal,
		GrandTotal:      inv.GrandTotal,
		Items:           make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:              item.ID,
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

// recompute re-lee todos los ítems dentro de la tx y persiste los totales derivados.
func recompute(invoiceRepo repository.InvoiceRepository, inv *entity.Invoice) error {
	items, err := invoiceRepo.ListItems(inv.ID)
	if err != nil {
		return err
	}
	inv.Subtotal, inv.TaxTotal, inv.DiscountTotal, inv.GrandTotal = ComputeTotals(items, inv.DiscountPercent)
	return invoiceRepo.UpdateTotals(inv)
}

// publishTotals propaga los totales recomputados hacia la orden enlazada (si existe).
// Es una notificación at-most-once: la corrección de la factura no depende de que
// la sincronización llegue.
func (uc *InvoiceUseCase) publishTotals(inv *entity.Invoice) {
	uc.sync.Publish(ports.OrderSyncEvent{
		Type:       ports.EventInvoiceTotals,
		InvoiceID:  inv.ID,
		Subtotal:   inv.Subtotal,
		TaxTotal:   inv.TaxTotal,
		GrandTotal: inv.GrandTotal,
	})
}

func (uc *InvoiceUseCase) recordAudit(inv *entity.Invoice, action string, detail map[string]interface{}) {
	var raw json.RawMessage
	if detail != nil {
		raw, _ = json.Marshal(detail)
	}
	uc.audit.Record(entity.AuditEvent{
		ActorID:    inv.ClientID,
		ActorRole:  entity.RoleEmployee,
		Action:     action,
		EntityType: "invoice",
		EntityID:   inv.ID,
		Detail:     raw,
	})
}

func percentInRange(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

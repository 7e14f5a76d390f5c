package cart

import (
	"context"
	"encoding/json"
	"time"

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

// UseCase maneja el carrito activo de un cliente (uno por cliente, creado perezosamente)
// y su valorización (CartPricingEnricher): resolver + aritmética de línea por fila.
type UseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	resolver *appPricing.Resolver
	audit    ports.AuditSink
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	carts repository.CartRepository,
	products repository.ProductRepository,
	resolver *appPricing.Resolver,
	audit ports.AuditSink,
	log *logger.Logger,
) *UseCase {
	return &UseCase{carts: carts, products: products, resolver: resolver, audit: audit, log: log}
}

// AddItem agrega qty del producto al carrito del cliente, acumulando si la línea ya
// existe. El upsert-con-incremento es una sola sentencia en el repositorio: dos adds
// concurrentes del mismo producto no pierden actualizaciones.
func (uc *UseCase) AddItem(ctx context.Context, clientID, productID string, qty decimal.Decimal) (*entity.CartLine, error) {
	if clientID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.Active {
		return nil, domain.ErrProductInactive
	}

	c, err := uc.carts.GetOrCreateByClient(clientID)
	if err != nil {
		return nil, err
	}
	line, err := uc.carts.AddOrIncrement(c.ID, productID, qty)
	if err != nil {
		return nil, err
	}
	uc.recordAudit(clientID, "cart.add_item", c.ID, map[string]interface{}{
		"product_id": productID, "quantity": qty.String(),
	})
	return line, nil
}

// UpdateItem fija la cantidad de una línea existente.
func (uc *UseCase) UpdateItem(ctx context.Context, clientID, productID string, qty decimal.Decimal) (*entity.CartLine, error) {
	if clientID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.carts.GetOrCreateByClient(clientID)
	if err != nil {
		return nil, err
	}
	line, err := uc.carts.SetQuantity(c.ID, productID, qty)
	if err != nil {
		return nil, err
	}
	uc.recordAudit(clientID, "cart.update_item", c.ID, map[string]interface{}{
		"product_id": productID, "quantity": qty.String(),
	})
	return line, nil
}

// RemoveItem elimina una línea del carrito.
func (uc *UseCase) RemoveItem(ctx context.Context, clientID, productID string) error {
	if clientID == "" || productID == "" {
		return domain.ErrInvalidInput
	}
	c, err := uc.carts.GetOrCreateByClient(clientID)
	if err != nil {
		return err
	}
	if err := uc.carts.RemoveLine(c.ID, productID); err != nil {
		return err
	}
	uc.recordAudit(clientID, "cart.remove_item", c.ID, map[string]interface{}{"product_id": productID})
	return nil
}

// Clear vacía el carrito del cliente.
func (uc *UseCase) Clear(ctx context.Context, clientID string) error {
	if clientID == "" {
		return domain.ErrInvalidInput
	}
	c, err := uc.carts.GetOrCreateByClient(clientID)
	if err != nil {
		return err
	}
	if err := uc.carts.Clear(c.ID); err != nil {
		return err
	}
	uc.recordAudit(clientID, "cart.clear", c.ID, nil)
	return nil
}

// PriceCart valoriza el carrito del cliente: resuelve precio por línea y aplica la
// aritmética de línea. Una falla de resolución degrada esa línea a precio cero en
// lugar de tumbar el carrito (render best-effort para visualización), marcándola
// con PriceMissing: el checkout rechaza carritos con líneas degradadas antes de
// comprometer dinero. Los agregados son sumas simples sobre las líneas.
func (uc *UseCase) PriceCart(ctx context.Context, clientID string) (*dto.PricedCart, error) {
	if clientID == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.carts.GetOrCreateByClient(clientID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.carts.ListLines(c.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	priced := &dto.PricedCart{
		ClientID:   clientID,
		Items:      make([]dto.PricedLine, 0, len(lines)),
		Subtotal:   decimal.Zero,
		TaxTotal:   decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	for _, line := range lines {
		resolvedPrice, err := uc.resolver.Resolve(ctx, line.ProductID, clientID, now)
		if err != nil {
			// Línea degradada: precio 0, impuesto 0, descuento 0, marcada con
			// PriceMissing para que el checkout la rechace.
			uc.log.Warn().Err(err).
				Str("client_id", clientID).
				Str("product_id", line.ProductID).
				Msg("precio no resuelto, línea degradada a cero")
			priced.Items = append(priced.Items, dto.PricedLine{
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				UnitPrice:       decimal.Zero,
				TaxRatePercent:  decimal.Zero,
				DiscountPercent: decimal.Zero,
				LineSubtotal:    decimal.Zero,
				LineDiscount:    decimal.Zero,
				LineTax:         decimal.Zero,
				LineTotal:       decimal.Zero,
				PriceMissing:    true,
			})
			continue
		}
		computed := pricing.ComputeLine(line.Quantity, resolvedPrice.Price, resolvedPrice.TaxRatePercent, resolvedPrice.DiscountPercent)
		priced.Items = append(priced.Items, dto.PricedLine{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			UnitPrice:       resolvedPrice.Price,
			TaxRatePercent:  resolvedPrice.TaxRatePercent,
			DiscountPercent: resolvedPrice.DiscountPercent,
			LineSubtotal:    computed.Subtotal,
			LineDiscount:    computed.Discount,
			LineTax:         computed.Tax,
			LineTotal:       computed.Total,
		})
		priced.Subtotal = priced.Subtotal.Add(computed.Subtotal)
		priced.TaxTotal = priced.TaxTotal.Add(computed.Tax)
		priced.GrandTotal = priced.GrandTotal.Add(computed.Total)
	}
	return priced, nil
}

func (uc *UseCase) recordAudit(clientID, action, cartID string, detail map[string]interface{}) {
	var raw json.RawMessage
	if detail != nil {
		raw, _ = json.Marshal(detail)
	}
	uc.audit.Record(entity.AuditEvent{
		ActorID:    clientID,
		ActorRole:  entity.RoleClient,
		Action:     action,
		EntityType: "cart",
		EntityID:   cartID,
		Detail:     raw,
	})
}

package pricing

import (
	"context"
	"time"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// Resolver resuelve el precio efectivo de un producto para un cliente en un instante,
// por precedencia: override de cliente → override de proveedor → precio base.
// Los empates dentro de un mismo tier se resuelven por EffectiveFrom más reciente
// (el repositorio entrega las reglas vigentes ordenadas por effective_from DESC).
type Resolver struct {
	rules    repository.PricingRuleRepository
	products repository.ProductRepository
}

// NewResolver construye el caso de uso.
func NewResolver(rules repository.PricingRuleRepository, products repository.ProductRepository) *Resolver {
	return &Resolver{rules: rules, products: products}
}

// Resolve devuelve exactamente una regla efectiva o domain.ErrPricingNotFound.
// clientID vacío omite el tier de cliente; asOf cero significa "ahora".
func (r *Resolver) Resolve(ctx context.Context, productID, clientID string, asOf time.Time) (*entity.ResolvedPrice, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	active, err := r.rules.ListActiveForProduct(productID, asOf)
	if err != nil {
		return nil, err
	}

	// Tier 1: override de cliente.
	if clientID != "" {
		for _, rule := range active {
			if rule.ClientID == clientID && rule.SupplierID == "" {
				return resolved(rule, entity.PriceSourceClientOverride), nil
			}
		}
	}

	// Tier 2: override del proveedor del producto.
	product, err := r.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.SupplierID != "" {
		for _, rule := range active {
			if rule.SupplierID == product.SupplierID && rule.ClientID == "" {
				return resolved(rule, entity.PriceSourceSupplierOverride), nil
			}
		}
	}

	// Tier 3: precio base.
	for _, rule := range active {
		if rule.IsBase() {
			return resolved(rule, entity.PriceSourceBase), nil
		}
	}

	return nil, domain.ErrPricingNotFound
}

func resolved(rule *entity.PricingRule, source string) *entity.ResolvedPrice {
	return &entity.ResolvedPrice{
		ProductID:       rule.ProductID,
		Price:           rule.Price,
		Currency:        rule.Currency,
		TaxRatePercent:  rule.TaxRatePercent,
		DiscountPercent: rule.DiscountPercent,
		Source:          source,
		EffectiveFrom:   rule.EffectiveFrom,
		EffectiveTo:     rule.EffectiveTo,
	}
}

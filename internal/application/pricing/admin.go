package pricing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// Admin administra el catálogo de reglas de precio. El solapamiento de ventanas
// NO se rechaza al escribir: la resolución desempata en lectura por la regla más
// reciente, así que dos reglas vigentes del mismo tier son un estado válido.
type Admin struct {
	rules    repository.PricingRuleRepository
	products repository.ProductRepository
	audit    ports.AuditSink
}

// NewAdmin construye el caso de uso de administración de reglas.
func NewAdmin(rules repository.PricingRuleRepository, products repository.ProductRepository, audit ports.AuditSink) *Admin {
	return &Admin{rules: rules, products: products, audit: audit}
}

// CreateRule valida y persiste una regla de precio.
func (a *Admin) CreateRule(ctx context.Context, actorID string, in dto.CreatePricingRuleRequest) (*entity.PricingRule, error) {
	rule, err := a.buildRule(in)
	if err != nil {
		return nil, err
	}
	product, err := a.products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := a.rules.Create(rule); err != nil {
		return nil, err
	}
	a.recordAudit(actorID, "pricing_rule.create", rule.ID, map[string]interface{}{
		"product_id": rule.ProductID, "price": rule.Price.String(),
	})
	return rule, nil
}

// UpdateRule actualiza precio, porcentajes y ventana de una regla existente.
func (a *Admin) UpdateRule(ctx context.Context, actorID, ruleID string, in dto.CreatePricingRuleRequest) (*entity.PricingRule, error) {
	existing, err := a.rules.GetByID(ruleID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	updated, err := a.buildRule(in)
	if err != nil {
		return nil, err
	}
	// El scope de la regla (producto, cliente, proveedor) es inmutable.
	updated.ID = existing.ID
	updated.ProductID = existing.ProductID
	updated.ClientID = existing.ClientID
	updated.SupplierID = existing.SupplierID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	if err := a.rules.Update(updated); err != nil {
		return nil, err
	}
	a.recordAudit(actorID, "pricing_rule.update", updated.ID, map[string]interface{}{
		"price": updated.Price.String(),
	})
	return updated, nil
}

// DeleteRule elimina una regla.
func (a *Admin) DeleteRule(ctx context.Context, actorID, ruleID string) error {
	existing, err := a.rules.GetByID(ruleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := a.rules.Delete(ruleID); err != nil {
		return err
	}
	a.recordAudit(actorID, "pricing_rule.delete", ruleID, nil)
	return nil
}

// ListByProduct lista las reglas de un producto (vigentes o no), paginado.
func (a *Admin) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.PricingRule, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return a.rules.ListByProduct(productID, limit, offset)
}

func (a *Admin) buildRule(in dto.CreatePricingRuleRequest) (*entity.PricingRule, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ClientID != "" && in.SupplierID != "" {
		return nil, domain.ErrInvalidInput // scopes mutuamente excluyentes
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if !percentInRange(in.TaxRatePercent) || !percentInRange(in.DiscountPercent) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	from := now
	if in.EffectiveFrom != "" {
		parsed, err := time.Parse(time.RFC3339, in.EffectiveFrom)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		from = parsed
	}
	var to *time.Time
	if in.EffectiveTo != "" {
		parsed, err := time.Parse(time.RFC3339, in.EffectiveTo)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		if !parsed.After(from) {
			return nil, domain.ErrInvalidInput
		}
		to = &parsed
	}
	currency := in.Currency
	if currency == "" {
		currency = "COP"
	}
	return &entity.PricingRule{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		ClientID:        in.ClientID,
		SupplierID:      in.SupplierID,
		Price:           in.Price,
		Currency:        currency,
		TaxRatePercent:  in.TaxRatePercent,
		DiscountPercent: in.DiscountPercent,
		EffectiveFrom:   from,
		EffectiveTo:     to,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (a *Admin) recordAudit(actorID, action, ruleID string, detail map[string]interface{}) {
	var raw json.RawMessage
	if detail != nil {
		raw, _ = json.Marshal(detail)
	}
	a.audit.Record(entity.AuditEvent{
		ActorID:    actorID,
		ActorRole:  entity.RoleAdmin,
		Action:     action,
		EntityType: "pricing_rule",
		EntityID:   ruleID,
		Detail:     raw,
	})
}

func percentInRange(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(decimal.NewFromInt(100))
}

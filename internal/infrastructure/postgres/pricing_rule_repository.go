package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.PricingRuleRepository = (*PricingRuleRepo)(nil)

// PricingRuleRepo implementación de PricingRuleRepository (usable con pool o tx).
type PricingRuleRepo struct {
	q Querier
}

// NewPricingRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPricingRuleRepository(q Querier) *PricingRuleRepo {
	return &PricingRuleRepo{q: q}
}

const pricingRuleColumns = `id, product_id, client_id, supplier_id, price, currency,
	tax_rate_percent, discount_percent, effective_from, effective_to, created_at, updated_at`

// Create persiste una regla de precio.
func (r *PricingRuleRepo) Create(rule *entity.PricingRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	query := `
		INSERT INTO pricing_rules (id, product_id, client_id, supplier_id, price, currency,
			tax_rate_percent, discount_percent, effective_from, effective_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.ProductID, nullIfEmpty(rule.ClientID), nullIfEmpty(rule.SupplierID),
		rule.Price, rule.Currency, rule.TaxRatePercent, rule.DiscountPercent,
		rule.EffectiveFrom, rule.EffectiveTo, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pricing rule: %w", err)
	}
	return nil
}

// Update actualiza precio, porcentajes y ventana de vigencia de la regla.
func (r *PricingRuleRepo) Update(rule *entity.PricingRule) error {
	query := `
		UPDATE pricing_rules
		SET price = $2, currency = $3, tax_rate_percent = $4, discount_percent = $5,
		    effective_from = $6, effective_to = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.Price, rule.Currency, rule.TaxRatePercent, rule.DiscountPercent,
		rule.EffectiveFrom, rule.EffectiveTo, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pricing rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pricing rule %s no existe", rule.ID)
	}
	return nil
}

// Delete elimina la regla.
func (r *PricingRuleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM pricing_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pricing rule: %w", err)
	}
	return nil
}

// GetByID obtiene una regla por ID.
func (r *PricingRuleRepo) GetByID(id string) (*entity.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE id = $1`
	rule, err := scanPricingRule(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pricing rule: %w", err)
	}
	return rule, nil
}

// ListActiveForProduct devuelve las reglas cuya ventana cubre asOf, ordenadas por
// effective_from DESC: el empate dentro de un tier se resuelve por la más reciente.
func (r *PricingRuleRepo) ListActiveForProduct(productID string, asOf time.Time) ([]*entity.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE product_id = $1
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY effective_from DESC`
	rows, err := r.q.Query(context.Background(), query, productID, asOf)
	if err != nil {
		return nil, fmt.Errorf("list active pricing rules: %w", err)
	}
	defer rows.Close()
	return collectPricingRules(rows)
}

// ListByProduct lista todas las reglas de un producto (administración), paginado.
func (r *PricingRuleRepo) ListByProduct(productID string, limit, offset int) ([]*entity.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE product_id = $1
		ORDER BY effective_from DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	defer rows.Close()
	return collectPricingRules(rows)
}

func collectPricingRules(rows pgx.Rows) ([]*entity.PricingRule, error) {
	var list []*entity.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pricing rule: %w", err)
		}
		list = append(list, rule)
	}
	return list, rows.Err()
}

func scanPricingRule(row pgx.Row) (*entity.PricingRule, error) {
	var rule entity.PricingRule
	var clientID, supplierID *string
	err := row.Scan(
		&rule.ID, &rule.ProductID, &clientID, &supplierID,
		&rule.Price, &rule.Currency, &rule.TaxRatePercent, &rule.DiscountPercent,
		&rule.EffectiveFrom, &rule.EffectiveTo, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rule.ClientID = derefStr(clientID)
	rule.SupplierID = derefStr(supplierID)
	return &rule, nil
}

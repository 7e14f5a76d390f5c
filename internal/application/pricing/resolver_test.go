package pricing_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppricing "github.com/jhoicas/comercio-api/internal/application/pricing"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// ── fakes en memoria ──────────────────────────────────────────────────────────

type fakeRuleRepo struct {
	rules []*entity.PricingRule
}

func (f *fakeRuleRepo) Create(r *entity.PricingRule) error { f.rules = append(f.rules, r); return nil }
func (f *fakeRuleRepo) Update(*entity.PricingRule) error   { return nil }
func (f *fakeRuleRepo) Delete(string) error                { return nil }
func (f *fakeRuleRepo) GetByID(string) (*entity.PricingRule, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeRuleRepo) ListActiveForProduct(productID string, asOf time.Time) ([]*entity.PricingRule, error) {
	var out []*entity.PricingRule
	for _, r := range f.rules {
		if r.ProductID == productID && r.ActiveAt(asOf) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EffectiveFrom.After(out[j].EffectiveFrom) })
	return out, nil
}

func (f *fakeRuleRepo) ListByProduct(productID string, limit, offset int) ([]*entity.PricingRule, error) {
	return nil, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) Update(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) GetBySKU(string) (*entity.Product, error)   { return nil, nil }
func (f *fakeProductRepo) List(int, int) ([]*entity.Product, error)   { return nil, nil }

// ── helpers ───────────────────────────────────────────────────────────────────

var asOf = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func rule(productID, clientID, supplierID, price string, from time.Time, to *time.Time) *entity.PricingRule {
	return &entity.PricingRule{
		ID:              productID + "/" + clientID + "/" + supplierID + "/" + price,
		ProductID:       productID,
		ClientID:        clientID,
		SupplierID:      supplierID,
		Price:           decimal.RequireFromString(price),
		Currency:        "COP",
		TaxRatePercent:  decimal.NewFromInt(19),
		DiscountPercent: decimal.Zero,
		EffectiveFrom:   from,
		EffectiveTo:     to,
	}
}

func newResolver(rules []*entity.PricingRule, products ...*entity.Product) *apppricing.Resolver {
	pr := &fakeProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		pr.products[p.ID] = p
	}
	return apppricing.NewResolver(&fakeRuleRepo{rules: rules}, pr)
}

var (
	prodWithSupplier = &entity.Product{ID: "prod-1", SupplierID: "sup-1", Active: true}
	prodNoSupplier   = &entity.Product{ID: "prod-2", Active: true}
)

// ── precedencia ───────────────────────────────────────────────────────────────

// TestResolve_Precedencia verifica que cada tier gana sobre los inferiores y que
// nunca se mezclan dos tiers en una misma resolución.
func TestResolve_Precedencia(t *testing.T) {
	start := asOf.AddDate(-1, 0, 0)
	base := rule("prod-1", "", "", "100", start, nil)
	supplier := rule("prod-1", "", "sup-1", "95", start, nil)
	client := rule("prod-1", "cli-1", "", "90", start, nil)

	t.Run("override de cliente gana", func(t *testing.T) {
		r := newResolver([]*entity.PricingRule{base, supplier, client}, prodWithSupplier)
		got, err := r.Resolve(context.Background(), "prod-1", "cli-1", asOf)
		require.NoError(t, err)
		assert.Equal(t, entity.PriceSourceClientOverride, got.Source)
		assert.True(t, decimal.RequireFromString("90").Equal(got.Price))
	})

	t.Run("sin regla de cliente cae al proveedor", func(t *testing.T) {
		r := newResolver([]*entity.PricingRule{base, supplier}, prodWithSupplier)
		got, err := r.Resolve(context.Background(), "prod-1", "cli-1", asOf)
		require.NoError(t, err)
		assert.Equal(t, entity.PriceSourceSupplierOverride, got.Source)
		assert.True(t, decimal.RequireFromString("95").Equal(got.Price))
	})

	t.Run("sin clientID salta directo al proveedor", func(t *testing.T) {
		r := newResolver([]*entity.PricingRule{base, supplier, client}, prodWithSupplier)
		got, err := r.Resolve(context.Background(), "prod-1", "", asOf)
		require.NoError(t, err)
		assert.Equal(t, entity.PriceSourceSupplierOverride, got.Source)
	})

	t.Run("producto sin proveedor cae al precio base", func(t *testing.T) {
		base2 := rule("prod-2", "", "", "50", start, nil)
		r := newResolver([]*entity.PricingRule{base2}, prodNoSupplier)
		got, err := r.Resolve(context.Background(), "prod-2", "cli-1", asOf)
		require.NoError(t, err)
		assert.Equal(t, entity.PriceSourceBase, got.Source)
	})

	t.Run("la regla de otro cliente no aplica", func(t *testing.T) {
		otherClient := rule("prod-1", "cli-otro", "", "10", start, nil)
		r := newResolver([]*entity.PricingRule{base, otherClient}, prodWithSupplier)
		got, err := r.Resolve(context.Background(), "prod-1", "cli-1", asOf)
		require.NoError(t, err)
		assert.Equal(t, entity.PriceSourceBase, got.Source)
	})
}

// ── ventanas de vigencia ──────────────────────────────────────────────────────

func TestResolve_VentanasDeVigencia(t *testing.T) {
	past := asOf.AddDate(0, -2, 0)
	expired := asOf.AddDate(0, -1, 0)
	future := asOf.AddDate(0, 1, 0)

	t.Run("regla vencida no aplica", func(t *testing.T) {
		r := newResolver([]*entity.PricingRule{rule("prod-2", "", "", "100", past, &expired)}, prodNoSupplier)
		_, err := r.Resolve(context.Background(), "prod-2", "", asOf)
		assert.ErrorIs(t, err, domain.ErrPricingNotFound)
	})

	t.Run("regla futura no aplica", func(t *testing.T) {
		r := newResolver([]*entity.PricingRule{rule("prod-2", "", "", "100", future, nil)}, prodNoSupplier)
		_, err := r.Resolve(context.Background(), "prod-2", "", asOf)
		assert.ErrorIs(t, err, domain.ErrPricingNotFound)
	})

	t.Run("effectiveTo abierto aplica", func(t *testing.T) {
		r := newResolver([]*entity.PricingRule{rule("prod-2", "", "", "100", past, nil)}, prodNoSupplier)
		got, err := r.Resolve(context.Background(), "prod-2", "", asOf)
		require.NoError(t, err)
		assert.Equal(t, entity.PriceSourceBase, got.Source)
	})
}

// ── empates dentro de un tier ─────────────────────────────────────────────────

// TestResolve_EmpateGanaMasReciente cubre el hueco latente de integridad: dos reglas
// base activas y solapadas para el mismo producto. La resolución debe ser determinista
// y elegir la de EffectiveFrom más reciente.
func TestResolve_EmpateGanaMasReciente(t *testing.T) {
	older := rule("prod-2", "", "", "100", asOf.AddDate(-1, 0, 0), nil)
	newer := rule("prod-2", "", "", "80", asOf.AddDate(0, -1, 0), nil)

	// El orden de inserción no debe importar.
	for _, rules := range [][]*entity.PricingRule{{older, newer}, {newer, older}} {
		r := newResolver(rules, prodNoSupplier)
		got, err := r.Resolve(context.Background(), "prod-2", "", asOf)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("80").Equal(got.Price),
			"debe ganar la regla más reciente, obtuvo %s", got.Price)
	}
}

// ── errores ───────────────────────────────────────────────────────────────────

func TestResolve_SinReglas(t *testing.T) {
	r := newResolver(nil, prodNoSupplier)
	_, err := r.Resolve(context.Background(), "prod-2", "cli-1", asOf)
	assert.ErrorIs(t, err, domain.ErrPricingNotFound)
}

func TestResolve_ProductoInexistente(t *testing.T) {
	r := newResolver(nil)
	_, err := r.Resolve(context.Background(), "prod-x", "", asOf)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_ProductoVacio(t *testing.T) {
	r := newResolver(nil)
	_, err := r.Resolve(context.Background(), "", "", asOf)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

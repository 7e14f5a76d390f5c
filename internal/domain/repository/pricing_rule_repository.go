package repository

import (
	"time"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// PricingRuleRepository define el puerto de persistencia para PricingRule (DIP).
// El core solo lee; las escrituras pertenecen a la administración de precios.
type PricingRuleRepository interface {
	Create(rule *entity.PricingRule) error
	Update(rule *entity.PricingRule) error
	Delete(id string) error
	GetByID(id string) (*entity.PricingRule, error)
	// ListActiveForProduct devuelve las reglas cuya ventana de vigencia cubre asOf,
	// ordenadas por effective_from DESC (el empate dentro de un tier se resuelve por recencia).
	ListActiveForProduct(productID string, asOf time.Time) ([]*entity.PricingRule, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.PricingRule, error)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fuentes de resolución de precio, por precedencia (mayor primero).
const (
	PriceSourceClientOverride   = "client_override"
	PriceSourceSupplierOverride = "supplier_override"
	PriceSourceBase             = "base_price"
)

// PricingRule representa una regla de precio para un producto dentro de una ventana de vigencia.
// ClientID y SupplierID son mutuamente excluyentes: a lo sumo uno está definido por regla.
// Una regla sin ninguno de los dos es el precio base del producto.
// EffectiveTo vacío significa vigencia abierta.
type PricingRule struct {
	ID              string
	ProductID       string
	ClientID        string // override por cliente ("" = no aplica)
	SupplierID      string // override por proveedor ("" = no aplica)
	Price           decimal.Decimal
	Currency        string // ISO 4217, ej. "COP"
	TaxRatePercent  decimal.Decimal // IVA en porcentaje: 0, 5, 19
	DiscountPercent decimal.Decimal // descuento de la regla, 0–100
	EffectiveFrom   time.Time
	EffectiveTo     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsBase indica si la regla es un precio base (sin scope de cliente ni proveedor).
func (r *PricingRule) IsBase() bool {
	return r.ClientID == "" && r.SupplierID == ""
}

// ActiveAt indica si la ventana [EffectiveFrom, EffectiveTo] cubre el instante dado.
func (r *PricingRule) ActiveAt(asOf time.Time) bool {
	if r.EffectiveFrom.After(asOf) {
		return false
	}
	if r.EffectiveTo != nil && r.EffectiveTo.Before(asOf) {
		return false
	}
	return true
}

// ResolvedPrice es el resultado de la resolución de precio para un producto/cliente/instante.
type ResolvedPrice struct {
	ProductID       string
	Price           decimal.Decimal
	Currency        string
	TaxRatePercent  decimal.Decimal
	DiscountPercent decimal.Decimal
	Source          string // client_override | supplier_override | base_price
	EffectiveFrom   time.Time
	EffectiveTo     *time.Time
}

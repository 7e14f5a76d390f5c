package entity

import "time"

// Product representa un producto del catálogo. El precio vive en las reglas de precio
// (PricingRule), no en el producto: aquí solo queda la referencia al proveedor y el flag activo.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	SupplierID  string // proveedor principal ("" = sin proveedor)
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

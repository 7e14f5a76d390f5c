package entity

import "time"

// Roles de actor sobre las operaciones del core.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "empleado"
	RoleClient   = "cliente"
)

// Client representa un cliente del comercio.
type Client struct {
	ID        string
	Name      string
	TaxID     string // NIT o Cédula
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier representa un proveedor de productos.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

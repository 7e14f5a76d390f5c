package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart es el carrito activo de un cliente (uno por cliente, creado perezosamente).
type Cart struct {
	ID        string
	ClientID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine es una fila cruda del carrito: producto + cantidad, sin precio.
type CartLine struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  decimal.Decimal // > 0
	CreatedAt time.Time
	UpdatedAt time.Time
}

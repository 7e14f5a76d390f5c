package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia para el carrito (uno activo por cliente).
type CartRepository interface {
	// GetOrCreateByClient devuelve el carrito activo del cliente, creándolo si no existe
	// (creación perezosa en el primer acceso).
	GetOrCreateByClient(clientID string) (*entity.Cart, error)
	// AddOrIncrement suma qty a la línea (cartID, productID) o la crea si no existe.
	// Debe ser un upsert-con-incremento en una sola sentencia: dos adds concurrentes
	// del mismo producto no pueden perder actualizaciones.
	AddOrIncrement(cartID, productID string, qty decimal.Decimal) (*entity.CartLine, error)
	// SetQuantity fija la cantidad de la línea. Retorna domain.ErrNotFound si no existe.
	SetQuantity(cartID, productID string, qty decimal.Decimal) (*entity.CartLine, error)
	RemoveLine(cartID, productID string) error
	Clear(cartID string) error
	ListLines(cartID string) ([]*entity.CartLine, error)
}

package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrPricingNotFound    = errors.New("no existe regla de precio vigente para el producto")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrInvoiceNotEditable = errors.New("la factura solo es editable en estado QUOTE")
	ErrProductInactive    = errors.New("el producto está inactivo")
)

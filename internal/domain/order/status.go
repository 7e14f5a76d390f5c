package order

import (
	"fmt"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// Status es el estado de una orden.
type Status string

// Estados de la orden. COMPLETED y CANCELLED son terminales.
const (
	StatusPending        Status = "PENDING"
	StatusInvoiceCreated Status = "INVOICE_CREATED"
	StatusInvoiceIssued  Status = "INVOICE_ISSUED"
	StatusShipped        Status = "SHIPPED"
	StatusDelivered      Status = "DELIVERED"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
)

// transitions es la lista de adyacencia estricta: todo movimiento no listado es ilegal.
var transitions = map[Status][]Status{
	StatusPending:        {StatusInvoiceCreated, StatusCancelled},
	StatusInvoiceCreated: {StatusInvoiceIssued, StatusCancelled},
	StatusInvoiceIssued:  {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusDelivered},
	StatusDelivered:      {StatusCompleted},
	StatusCompleted:      {},
	StatusCancelled:      {},
}

// InvalidTransitionError indica un movimiento fuera de la lista de adyacencia.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transición de orden inválida: %s → %s", e.From, e.To)
}

// Valid indica si s es un estado conocido.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal indica si el estado no tiene transiciones de salida.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// CanTransition indica si el movimiento from → to está en la lista de adyacencia.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition valida el movimiento y devuelve *InvalidTransitionError si es ilegal.
func Transition(from, to Status) error {
	if !from.Valid() || !to.Valid() {
		return &InvalidTransitionError{From: from, To: to}
	}
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// AllowedForRole aplica la restricción por rol en el mismo punto que la validez del
// movimiento (evita la carrera entre chequeo de validez y chequeo de permiso):
// un actor con rol cliente solo puede solicitar CANCELLED, y solo desde PENDING.
// Todo lo demás es exclusivo de empleados/admins.
func AllowedForRole(role string, from, to Status) bool {
	if role == entity.RoleClient {
		return to == StatusCancelled && from == StatusPending
	}
	return true
}

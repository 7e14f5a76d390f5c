package entity

import "time"

// User representa un usuario del back office (empleado, admin) o el acceso de un cliente.
// ClientID solo está definido para usuarios con rol "cliente".
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string // admin | empleado | cliente
	ClientID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package entity

import (
	"encoding/json"
	"time"
)

// AuditEvent registra una acción mutadora sobre el sistema (escritura fire-and-forget).
type AuditEvent struct {
	ID         string
	ActorID    string
	ActorRole  string
	Action     string // ej. "cart.add_item", "invoice.issue", "order.update_status"
	EntityType string
	EntityID   string
	Detail     json.RawMessage
	CreatedAt  time.Time
}

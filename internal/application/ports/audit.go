package ports

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// AuditSink recibe eventos de auditoría por cada acción mutadora.
// La escritura es fire-and-forget: el adaptador registra la falla en el log y
// nunca la propaga al caso de uso.
type AuditSink interface {
	Record(event entity.AuditEvent)
}

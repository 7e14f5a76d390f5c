package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)
var _ ports.AuditSink = (*AuditSink)(nil)

// AuditRepo implementación de AuditRepository.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Record persiste un evento de auditoría.
func (r *AuditRepo) Record(event *entity.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_events (id, actor_id, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.ActorID, event.ActorRole, event.Action,
		event.EntityType, event.EntityID, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// AuditSink adapta el repositorio al puerto fire-and-forget de los casos de uso:
// una falla de auditoría se registra en el log pero nunca afecta la operación.
type AuditSink struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewAuditSink construye el sink sobre el repositorio.
func NewAuditSink(repo repository.AuditRepository, log *logger.Logger) *AuditSink {
	return &AuditSink{repo: repo, log: log}
}

// Record persiste el evento de forma best-effort.
func (s *AuditSink) Record(event entity.AuditEvent) {
	if err := s.repo.Record(&event); err != nil {
		s.log.Warn().Err(err).Str("action", event.Action).Msg("no se pudo registrar el evento de auditoría")
	}
}

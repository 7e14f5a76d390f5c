package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna consecutivos atómicos por (entidad, año) sobre un contador
// dedicado. Nunca cuenta filas existentes: bajo creación concurrente el upsert con
// incremento serializa en la fila del contador y no puede repetir valores.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo para (entityKind, year).
func (r *SequenceRepo) Next(entityKind string, year int) (int64, error) {
	query := `
		INSERT INTO number_sequences (entity_kind, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (entity_kind, year)
		DO UPDATE SET last_value = number_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, entityKind, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s/%d: %w", entityKind, year, err)
	}
	return n, nil
}

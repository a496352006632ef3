package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos por clave en sys_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo. La fila queda bloqueada hasta el fin de la tx,
// así dos órdenes concurrentes nunca reciben el mismo número.
func (r *SequenceRepo) Next(ctx context.Context, key string) (int64, error) {
	var val int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val`, key).Scan(&val)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", key, err)
	}
	return val, nil
}

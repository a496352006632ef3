package repository

import "context"

// SequenceRepository entrega consecutivos únicos y crecientes por clave (sys_sequences).
// Ejecutado dentro de la transacción que crea el documento: sin huecos si hay rollback.
type SequenceRepository interface {
	Next(ctx context.Context, key string) (int64, error)
}

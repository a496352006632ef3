package repository

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// BOMRepository define el puerto de persistencia de recetas.
type BOMRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]entity.BOMLine, error)
	// ListByOwners devuelve las líneas agrupadas por dueño.
	ListByOwners(ctx context.Context, ownerIDs []string) (map[string][]entity.BOMLine, error)
	// ListByComponent vista "usado en": recetas que consumen el componente.
	ListByComponent(ctx context.Context, componentID string) ([]entity.BOMLine, error)
	// ReplaceForOwner reemplaza la receta completa del dueño.
	ReplaceForOwner(ctx context.Context, ownerID string, lines []entity.BOMLine) error
}

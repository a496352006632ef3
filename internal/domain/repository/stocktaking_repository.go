package repository

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// StocktakingRepository define el puerto de persistencia de tomas físicas.
// GetByID y GetForUpdate devuelven la sesión con sus líneas; (nil, nil) si no existe.
type StocktakingRepository interface {
	Create(ctx context.Context, session *entity.StocktakingSession) error
	GetByID(ctx context.Context, id string) (*entity.StocktakingSession, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StocktakingSession, error)
	// Update persiste la cabecera y reemplaza las líneas de la sesión.
	Update(ctx context.Context, session *entity.StocktakingSession) error
	List(ctx context.Context, limit, offset int) ([]*entity.StocktakingSession, error)
}

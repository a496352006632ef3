package repository

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia del catálogo de ítems (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el ítem no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del ítem hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	ListByKinds(ctx context.Context, kinds []entity.ItemKind, limit, offset int) ([]*entity.Item, error)
	// UpdateStock persiste OnHand y UnitCost. Solo debe llamarse junto con un movimiento.
	UpdateStock(ctx context.Context, item *entity.Item) error
}

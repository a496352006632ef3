package repository

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// OrderFilter filtros para listar órdenes de conversión.
type OrderFilter struct {
	Type     entity.OrderType   // vacío = todos
	Statuses []entity.OrderStatus // vacío = todos
	Limit    int
	Offset   int
}

// ConversionOrderRepository define el puerto de persistencia de órdenes de producción y empaque.
// GetByID y GetForUpdate devuelven la orden con líneas y consumo; (nil, nil) si no existe.
type ConversionOrderRepository interface {
	Create(ctx context.Context, order *entity.ConversionOrder) error
	GetByID(ctx context.Context, id string) (*entity.ConversionOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ConversionOrder, error)
	// Update persiste estado, costos de cabecera y líneas, fechas y el consumo aplicado.
	Update(ctx context.Context, order *entity.ConversionOrder) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.ConversionOrder, error)
	// ListOpen devuelve todas las órdenes pending/in_progress con sus líneas.
	ListOpen(ctx context.Context) ([]*entity.ConversionOrder, error)
}

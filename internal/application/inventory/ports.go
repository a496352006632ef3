package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo: ningún movimiento queda a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// ReservationCache guarda la última foto de reservas calculada.
// Una foto vieja es aceptable; quien cambia órdenes o recetas llama Invalidate.
type ReservationCache interface {
	Get(ctx context.Context) (*Snapshot, bool, error)
	Set(ctx context.Context, s *Snapshot) error
	Invalidate(ctx context.Context) error
}

// ReservedEntry cantidad reservada de un componente.
type ReservedEntry struct {
	Kind     entity.ItemKind `json:"kind"`
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Snapshot foto de reservas de todas las órdenes abiertas.
type Snapshot struct {
	Entries    []ReservedEntry `json:"entries"`
	OpenOrders int             `json:"open_orders"`
	ComputedAt time.Time       `json:"computed_at"`
}

// NewSnapshot arma la foto a partir del cálculo de dominio (entradas en orden de clave).
func NewSnapshot(res domaininv.Reservations, openOrders int, at time.Time) *Snapshot {
	s := &Snapshot{OpenOrders: openOrders, ComputedAt: at, Entries: make([]ReservedEntry, 0, len(res))}
	for _, k := range res.Keys() {
		s.Entries = append(s.Entries, ReservedEntry{Kind: k.Kind, ItemID: k.ID, Quantity: res.Of(k)})
	}
	return s
}

// Reservations reconstruye el mapa de reservas.
func (s *Snapshot) Reservations() domaininv.Reservations {
	out := make(domaininv.Reservations, len(s.Entries))
	for _, e := range s.Entries {
		out.Add(entity.ItemKey{Kind: e.Kind, ID: e.ItemID}, e.Quantity)
	}
	return out
}

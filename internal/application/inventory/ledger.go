package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// posting datos de un asiento del libro. Quantity es positiva en in/out;
// en adjustment lleva el signo del ajuste.
type posting struct {
	Direction     string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	Reason        string
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
	At            time.Time
}

func (p posting) delta() decimal.Decimal {
	if p.Direction == entity.DirectionOut {
		return p.Quantity.Neg()
	}
	return p.Quantity
}

// post muta el stock del ítem (ya bloqueado) y escribe exactamente un movimiento
// con el saldo anterior y el nuevo. Única vía para tocar OnHand.
func post(ctx context.Context, tx repository.Tx, item *entity.Item, p posting) (*entity.Movement, error) {
	prev := item.OnHand
	item.OnHand = prev.Add(p.delta())
	item.UpdatedAt = p.At
	if err := tx.Items.UpdateStock(ctx, item); err != nil {
		return nil, domain.Persistence("update stock "+item.Code, err)
	}
	mov := &entity.Movement{
		ID:              uuid.New().String(),
		ItemKind:        item.Kind,
		ItemID:          item.ID,
		Direction:       p.Direction,
		Quantity:        p.Quantity,
		PreviousBalance: prev,
		NewBalance:      item.OnHand,
		UnitCost:        p.UnitCost,
		Reason:          p.Reason,
		ReferenceType:   p.ReferenceType,
		ReferenceID:     p.ReferenceID,
		CreatedBy:       p.CreatedBy,
		CreatedAt:       p.At,
	}
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, domain.Persistence("create movement "+item.Code, err)
	}
	return mov, nil
}

// lockItems bloquea (SELECT FOR UPDATE) los ítems en orden de clave para evitar deadlocks
// entre transacciones concurrentes. Verifica que el tipo almacenado coincida con la clave.
func lockItems(ctx context.Context, tx repository.Tx, keys []entity.ItemKey) (map[entity.ItemKey]*entity.Item, error) {
	sorted := append([]entity.ItemKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	out := make(map[entity.ItemKey]*entity.Item, len(sorted))
	for _, k := range sorted {
		if _, done := out[k]; done {
			continue
		}
		item, err := tx.Items.GetForUpdate(ctx, k.ID)
		if err != nil {
			return nil, domain.Persistence("lock item "+k.ID, err)
		}
		if item == nil {
			return nil, domain.NotFound("item", k.ID)
		}
		if item.Kind != k.Kind {
			return nil, domain.Invalid("item", k.ID, fmt.Sprintf("se esperaba tipo %s, es %s", k.Kind, item.Kind))
		}
		out[k] = item
	}
	return out, nil
}

package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// Reservations cantidad ya comprometida por componente (tipo, ID).
type Reservations map[entity.ItemKey]decimal.Decimal

// Of devuelve la cantidad reservada de un ítem (cero si no hay).
func (r Reservations) Of(key entity.ItemKey) decimal.Decimal {
	if q, ok := r[key]; ok {
		return q
	}
	return decimal.Zero
}

// Add suma qty a la reserva del ítem.
func (r Reservations) Add(key entity.ItemKey, qty decimal.Decimal) {
	r[key] = r.Of(key).Add(qty)
}

// Merge suma otra reserva sobre esta.
func (r Reservations) Merge(o Reservations) {
	for k, q := range o {
		r.Add(k, q)
	}
}

// Keys devuelve las claves ordenadas.
func (r Reservations) Keys() []entity.ItemKey {
	keys := make([]entity.ItemKey, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// DemandLine una salida pedida (orden guardada o borrador).
type DemandLine struct {
	OutputItemID string
	Quantity     decimal.Decimal
}

// Demand expande un conjunto de líneas de salida a través de sus recetas y suma por componente.
// recipes está indexado por ID del ítem de salida.
func Demand(lines []DemandLine, recipes map[string]*Recipe) (Reservations, error) {
	out := make(Reservations)
	for i, l := range lines {
		recipe, ok := recipes[l.OutputItemID]
		if !ok || recipe == nil {
			return nil, &domain.Error{
				Kind:    domain.ErrNotFound,
				Entity:  "recipe",
				ID:      l.OutputItemID,
				Line:    i + 1,
				Message: "el ítem de salida no tiene receta",
			}
		}
		reqs, err := recipe.Expand(l.Quantity)
		if err != nil {
			return nil, err
		}
		for _, req := range reqs {
			out.Add(req.Key, req.Quantity)
		}
	}
	return out, nil
}

// OrderDemand demanda de una orden guardada.
func OrderDemand(o *entity.ConversionOrder, recipes map[string]*Recipe) (Reservations, error) {
	lines := make([]DemandLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, DemandLine{OutputItemID: l.OutputItemID, Quantity: l.Quantity})
	}
	return Demand(lines, recipes)
}

// ComputeReservations suma la demanda de todas las órdenes abiertas (pending, in_progress).
// Las órdenes completadas o canceladas se ignoran: su efecto ya está en el stock o no existe.
func ComputeReservations(orders []*entity.ConversionOrder, recipes map[string]*Recipe) (Reservations, error) {
	out := make(Reservations)
	for _, o := range orders {
		if o == nil || !o.Status.IsOpen() {
			continue
		}
		d, err := OrderDemand(o, recipes)
		if err != nil {
			if de, ok := domain.AsError(err); ok && de.Entity == "recipe" {
				de.Message += " (orden " + o.Code + ")"
			}
			return nil, err
		}
		out.Merge(d)
	}
	return out, nil
}

// TrueAvailable = max(0, onHand - reservado - demandaDelBorrador).
func TrueAvailable(onHand, reserved, draftDemand decimal.Decimal) decimal.Decimal {
	v := onHand.Sub(reserved).Sub(draftDemand)
	if v.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return v
}

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository            = (*ItemRepo)(nil)
	_ repository.BOMRepository             = (*BOMRepo)(nil)
	_ repository.ConversionOrderRepository = (*OrderRepo)(nil)
	_ repository.MovementRepository        = (*MovementRepo)(nil)
	_ repository.StocktakingRepository     = (*StocktakingRepo)(nil)
	_ repository.SequenceRepository        = (*SequenceRepo)(nil)
)

// ItemRepo catálogo en memoria.
type ItemRepo struct{ acc accessor }

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	st, done := r.acc()
	defer done()
	if _, ok := st.items[item.ID]; ok {
		return fmt.Errorf("item %s ya existe", item.ID)
	}
	for _, it := range st.items {
		if it.Code == item.Code {
			return fmt.Errorf("código %s ya existe", item.Code)
		}
	}
	st.items[item.ID] = *item
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	st, done := r.acc()
	defer done()
	it, ok := st.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// GetForUpdate igual a GetByID: la transacción ya tiene el estado en exclusiva.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) ListByKinds(_ context.Context, kinds []entity.ItemKind, limit, offset int) ([]*entity.Item, error) {
	st, done := r.acc()
	defer done()
	rank := make(map[entity.ItemKind]int, len(kinds))
	for i, k := range kinds {
		rank[k] = i
	}
	list := make([]*entity.Item, 0)
	for _, it := range st.items {
		if _, ok := rank[it.Kind]; !ok {
			continue
		}
		it := it
		list = append(list, &it)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Kind != list[j].Kind {
			return rank[list[i].Kind] < rank[list[j].Kind]
		}
		return list[i].Code < list[j].Code
	})
	return page(list, limit, offset), nil
}

func (r *ItemRepo) UpdateStock(_ context.Context, item *entity.Item) error {
	st, done := r.acc()
	defer done()
	cur, ok := st.items[item.ID]
	if !ok {
		return fmt.Errorf("item %s no existe", item.ID)
	}
	cur.OnHand = item.OnHand
	cur.UnitCost = item.UnitCost
	cur.UpdatedAt = item.UpdatedAt
	st.items[item.ID] = cur
	return nil
}

// BOMRepo recetas en memoria.
type BOMRepo struct{ acc accessor }

func (r *BOMRepo) ListByOwner(_ context.Context, ownerID string) ([]entity.BOMLine, error) {
	st, done := r.acc()
	defer done()
	return append([]entity.BOMLine{}, st.bom[ownerID]...), nil
}

func (r *BOMRepo) ListByOwners(_ context.Context, ownerIDs []string) (map[string][]entity.BOMLine, error) {
	st, done := r.acc()
	defer done()
	out := make(map[string][]entity.BOMLine, len(ownerIDs))
	for _, id := range ownerIDs {
		if lines := st.bom[id]; len(lines) > 0 {
			out[id] = append([]entity.BOMLine(nil), lines...)
		}
	}
	return out, nil
}

func (r *BOMRepo) ListByComponent(_ context.Context, componentID string) ([]entity.BOMLine, error) {
	st, done := r.acc()
	defer done()
	out := make([]entity.BOMLine, 0)
	for _, lines := range st.bom {
		for _, l := range lines {
			if l.ComponentID == componentID {
				out = append(out, l)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerID < out[j].OwnerID })
	return out, nil
}

func (r *BOMRepo) ReplaceForOwner(_ context.Context, ownerID string, lines []entity.BOMLine) error {
	st, done := r.acc()
	defer done()
	if len(lines) == 0 {
		delete(st.bom, ownerID)
		return nil
	}
	st.bom[ownerID] = append([]entity.BOMLine(nil), lines...)
	return nil
}

// OrderRepo órdenes de conversión en memoria.
type OrderRepo struct{ acc accessor }

func (r *OrderRepo) Create(_ context.Context, order *entity.ConversionOrder) error {
	st, done := r.acc()
	defer done()
	if _, ok := st.orders[order.ID]; ok {
		return fmt.Errorf("orden %s ya existe", order.ID)
	}
	st.orders[order.ID] = copyOrder(*order)
	st.orderIDs = append(st.orderIDs, order.ID)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.ConversionOrder, error) {
	st, done := r.acc()
	defer done()
	o, ok := st.orders[id]
	if !ok {
		return nil, nil
	}
	o = copyOrder(o)
	return &o, nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ConversionOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) Update(_ context.Context, order *entity.ConversionOrder) error {
	st, done := r.acc()
	defer done()
	if _, ok := st.orders[order.ID]; !ok {
		return fmt.Errorf("orden %s no existe", order.ID)
	}
	st.orders[order.ID] = copyOrder(*order)
	return nil
}

// List más recientes primero.
func (r *OrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]*entity.ConversionOrder, error) {
	st, done := r.acc()
	defer done()
	statuses := make(map[entity.OrderStatus]bool, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses[s] = true
	}
	list := make([]*entity.ConversionOrder, 0)
	for i := len(st.orderIDs) - 1; i >= 0; i-- {
		o := copyOrder(st.orders[st.orderIDs[i]])
		if filter.Type != "" && o.Type != filter.Type {
			continue
		}
		if len(statuses) > 0 && !statuses[o.Status] {
			continue
		}
		list = append(list, &o)
	}
	return page(list, filter.Limit, filter.Offset), nil
}

func (r *OrderRepo) ListOpen(_ context.Context) ([]*entity.ConversionOrder, error) {
	st, done := r.acc()
	defer done()
	list := make([]*entity.ConversionOrder, 0)
	for _, id := range st.orderIDs {
		o := copyOrder(st.orders[id])
		if o.Status.IsOpen() {
			list = append(list, &o)
		}
	}
	return list, nil
}

// MovementRepo libro de movimientos en memoria (solo inserción).
type MovementRepo struct{ acc accessor }

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	st, done := r.acc()
	defer done()
	st.movements = append(st.movements, *m)
	return nil
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	st, done := r.acc()
	defer done()
	for _, m := range st.movements {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	st, done := r.acc()
	defer done()
	list := make([]*entity.Movement, 0)
	for _, m := range st.movements {
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.ReferenceType != "" && m.ReferenceType != f.ReferenceType {
			continue
		}
		if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		m := m
		list = append(list, &m)
	}
	return page(list, f.Limit, f.Offset), nil
}

// StocktakingRepo tomas físicas en memoria.
type StocktakingRepo struct{ acc accessor }

func (r *StocktakingRepo) Create(_ context.Context, s *entity.StocktakingSession) error {
	st, done := r.acc()
	defer done()
	if _, ok := st.sessions[s.ID]; ok {
		return fmt.Errorf("sesión %s ya existe", s.ID)
	}
	st.sessions[s.ID] = copySession(*s)
	st.sessionIDs = append(st.sessionIDs, s.ID)
	return nil
}

func (r *StocktakingRepo) GetByID(_ context.Context, id string) (*entity.StocktakingSession, error) {
	st, done := r.acc()
	defer done()
	s, ok := st.sessions[id]
	if !ok {
		return nil, nil
	}
	s = copySession(s)
	return &s, nil
}

func (r *StocktakingRepo) GetForUpdate(ctx context.Context, id string) (*entity.StocktakingSession, error) {
	return r.GetByID(ctx, id)
}

func (r *StocktakingRepo) Update(_ context.Context, s *entity.StocktakingSession) error {
	st, done := r.acc()
	defer done()
	if _, ok := st.sessions[s.ID]; !ok {
		return fmt.Errorf("sesión %s no existe", s.ID)
	}
	st.sessions[s.ID] = copySession(*s)
	return nil
}

func (r *StocktakingRepo) List(_ context.Context, limit, offset int) ([]*entity.StocktakingSession, error) {
	st, done := r.acc()
	defer done()
	list := make([]*entity.StocktakingSession, 0, len(st.sessionIDs))
	for i := len(st.sessionIDs) - 1; i >= 0; i-- {
		s := copySession(st.sessions[st.sessionIDs[i]])
		list = append(list, &s)
	}
	return page(list, limit, offset), nil
}

// SequenceRepo consecutivos en memoria.
type SequenceRepo struct{ acc accessor }

func (r *SequenceRepo) Next(_ context.Context, key string) (int64, error) {
	st, done := r.acc()
	defer done()
	st.sequences[key]++
	return st.sequences[key], nil
}

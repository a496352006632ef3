// Package memory implementa los repositorios en memoria del proceso.
// Sirve para desarrollo (STORAGE_DRIVER=memory) y para las pruebas de los casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	items      map[string]entity.Item
	bom        map[string][]entity.BOMLine // por dueño
	orders     map[string]entity.ConversionOrder
	orderIDs   []string // orden de creación
	movements  []entity.Movement
	sessions   map[string]entity.StocktakingSession
	sessionIDs []string
	sequences  map[string]int64
}

func newState() *state {
	return &state{
		items:     map[string]entity.Item{},
		bom:       map[string][]entity.BOMLine{},
		orders:    map[string]entity.ConversionOrder{},
		sessions:  map[string]entity.StocktakingSession{},
		sequences: map[string]int64{},
	}
}

// clone copia profunda: la transacción trabaja sobre la copia y el commit la publica.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.bom {
		c.bom[k] = append([]entity.BOMLine(nil), v...)
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	c.orderIDs = append([]string(nil), s.orderIDs...)
	c.movements = append([]entity.Movement(nil), s.movements...)
	for k, v := range s.sessions {
		c.sessions[k] = copySession(v)
	}
	c.sessionIDs = append([]string(nil), s.sessionIDs...)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store guarda el estado confirmado. Las transacciones se serializan con un mutex
// (equivalente a bloquear todas las filas) y el rollback es descartar la copia.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposOver(func() (*state, func()) { return work, func() {} })); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos devuelve repositorios sobre el estado confirmado (cada llamada es atómica por sí sola).
// No usar dentro de Run: bloquearía el mutex.
func (s *Store) Repos() repository.Tx {
	return reposOver(func() (*state, func()) {
		s.mu.Lock()
		return s.st, s.mu.Unlock
	})
}

type accessor func() (*state, func())

func reposOver(acc accessor) repository.Tx {
	return repository.Tx{
		Items:       &ItemRepo{acc: acc},
		BOM:         &BOMRepo{acc: acc},
		Orders:      &OrderRepo{acc: acc},
		Movements:   &MovementRepo{acc: acc},
		Stocktaking: &StocktakingRepo{acc: acc},
		Sequences:   &SequenceRepo{acc: acc},
	}
}

func copyOrder(o entity.ConversionOrder) entity.ConversionOrder {
	o.Lines = append([]entity.ConversionOrderLine(nil), o.Lines...)
	o.Consumption = append([]entity.ConsumptionEntry(nil), o.Consumption...)
	o.CompletedAt = copyTime(o.CompletedAt)
	o.CancelledAt = copyTime(o.CancelledAt)
	return o
}

func copySession(s entity.StocktakingSession) entity.StocktakingSession {
	lines := make([]entity.CountLine, len(s.Lines))
	for i, l := range s.Lines {
		l.CountedAt = copyTime(l.CountedAt)
		lines[i] = l
	}
	s.Lines = lines
	s.StartedAt = copyTime(s.StartedAt)
	s.CompletedAt = copyTime(s.CompletedAt)
	s.CancelledAt = copyTime(s.CancelledAt)
	return s
}

package inventory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	domaininv "github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

// ReservationUseCase calcula y cachea la foto de reservas de las órdenes abiertas.
// Las lecturas no bloquean a los escritores; una foto desactualizada es aceptable.
type ReservationUseCase struct {
	repos repository.Tx
	cache ReservationCache
	log   *logger.Logger
	gen   atomic.Uint64 // se incrementa en cada Invalidate
}

// NewReservationUseCase construye el caso de uso. cache puede ser nil (se recalcula siempre).
func NewReservationUseCase(repos repository.Tx, cache ReservationCache, log *logger.Logger) *ReservationUseCase {
	return &ReservationUseCase{repos: repos, cache: cache, log: log}
}

// Snapshot devuelve la foto vigente, recalculándola si la caché está vacía.
func (uc *ReservationUseCase) Snapshot(ctx context.Context) (*Snapshot, error) {
	if uc.cache != nil {
		s, ok, err := uc.cache.Get(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("caché de reservas no disponible, se recalcula")
		} else if ok {
			return s, nil
		}
	}
	gen := uc.gen.Load()
	s, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}
	// una invalidación durante el cálculo deja esta foto vieja: no se guarda
	if uc.cache != nil && uc.gen.Load() == gen {
		if err := uc.cache.Set(ctx, s); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar la foto de reservas")
		}
	}
	return s, nil
}

// Reserved devuelve el mapa de reservas de la foto vigente.
func (uc *ReservationUseCase) Reserved(ctx context.Context) (domaininv.Reservations, error) {
	s, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Reservations(), nil
}

// Invalidate descarta la foto; la próxima lectura recalcula.
func (uc *ReservationUseCase) Invalidate(ctx context.Context) {
	if uc == nil {
		return
	}
	uc.gen.Add(1)
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la foto de reservas")
	}
}

func (uc *ReservationUseCase) compute(ctx context.Context) (*Snapshot, error) {
	orders, err := uc.repos.Orders.ListOpen(ctx)
	if err != nil {
		return nil, domain.Persistence("list open orders", err)
	}
	var outputs []string
	for _, o := range orders {
		for _, l := range o.Lines {
			outputs = append(outputs, l.OutputItemID)
		}
	}
	recipes, err := loadRecipes(ctx, uc.repos.Items, uc.repos.BOM, outputs)
	if err != nil {
		return nil, err
	}
	res, err := domaininv.ComputeReservations(orders, recipes)
	if err != nil {
		return nil, err
	}
	s := NewSnapshot(res, len(orders), time.Now().UTC())
	uc.log.Debug().Int("open_orders", len(orders)).Int("components", len(s.Entries)).Msg("reservas recalculadas")
	return s, nil
}

// memoryReservationCache caché en proceso con TTL opcional.
type memoryReservationCache struct {
	mu       sync.RWMutex
	snapshot *Snapshot
	storedAt time.Time
	ttl      time.Duration
}

// NewMemoryReservationCache caché en memoria del proceso. ttl <= 0 = sin expiración.
func NewMemoryReservationCache(ttl time.Duration) ReservationCache {
	return &memoryReservationCache{ttl: ttl}
}

func (c *memoryReservationCache) Get(_ context.Context) (*Snapshot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, false, nil
	}
	if c.ttl > 0 && time.Since(c.storedAt) > c.ttl {
		return nil, false, nil
	}
	return c.snapshot, true, nil
}

func (c *memoryReservationCache) Set(_ context.Context, s *Snapshot) error {
	c.mu.Lock()
	c.snapshot = s
	c.storedAt = time.Now()
	c.mu.Unlock()
	return nil
}

func (c *memoryReservationCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
	return nil
}

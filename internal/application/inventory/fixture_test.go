package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/internal/infrastructure/memory"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	ctx           context.Context
	store         *memory.Store
	repos         repository.Tx
	reservations  *inventory.ReservationUseCase
	catalog       *inventory.CatalogUseCase
	orders        *inventory.ConversionUseCase
	shortage      *inventory.ShortageUseCase
	stocktaking   *inventory.StocktakingUseCase
	replenishment *inventory.ReplenishmentUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()
	res := inventory.NewReservationUseCase(repos, inventory.NewMemoryReservationCache(time.Minute), log)
	return &env{
		ctx:           context.Background(),
		store:         store,
		repos:         repos,
		reservations:  res,
		catalog:       inventory.NewCatalogUseCase(store, repos, res, log, 3),
		orders:        inventory.NewConversionUseCase(store, repos, res, log, 3),
		shortage:      inventory.NewShortageUseCase(repos, res),
		stocktaking:   inventory.NewStocktakingUseCase(store, repos, log, 3),
		replenishment: inventory.NewReplenishmentUseCase(repos, res),
	}
}

func (e *env) item(t *testing.T, kind entity.ItemKind, name, batch string) *entity.Item {
	t.Helper()
	in := inventory.CreateItemInput{Kind: kind, Name: name, Unit: "und"}
	if batch != "" {
		in.ReferenceBatchSize = dec(batch)
	}
	it, err := e.catalog.CreateItem(e.ctx, in)
	require.NoError(t, err)
	return it
}

func (e *env) receive(t *testing.T, id, qty, cost string) {
	t.Helper()
	_, err := e.catalog.Receive(e.ctx, id, inventory.ReceiptInput{Quantity: dec(qty), UnitCost: dec(cost)})
	require.NoError(t, err)
}

func (e *env) recipe(t *testing.T, ownerID string, lines ...inventory.RecipeLineInput) {
	t.Helper()
	_, err := e.catalog.SetRecipe(e.ctx, ownerID, lines)
	require.NoError(t, err)
}

func (e *env) onHand(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	it, err := e.repos.Items.GetByID(e.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.OnHand
}

func (e *env) movements(t *testing.T, f repository.MovementFilter) []*entity.Movement {
	t.Helper()
	list, err := e.repos.Movements.List(e.ctx, f)
	require.NoError(t, err)
	return list
}

func (e *env) order(t *testing.T, typ entity.OrderType, outputID, qty string) *entity.ConversionOrder {
	t.Helper()
	o, err := e.orders.Create(e.ctx, inventory.CreateOrderInput{
		Type:  typ,
		Lines: []inventory.OrderLineInput{{OutputItemID: outputID, Quantity: dec(qty)}},
	})
	require.NoError(t, err)
	return o
}

// plant catálogo de ejemplo: Sugar -> Syrup (lote 100, 50 de azúcar) y Syrup + Cap -> Bottle500ml.
type plant struct {
	sugar, syrup, capItem, bottle *entity.Item
}

func newPlant(t *testing.T, e *env) plant {
	t.Helper()
	p := plant{
		sugar:   e.item(t, entity.KindRawMaterial, "Sugar", ""),
		syrup:   e.item(t, entity.KindSemiFinished, "Syrup", "100"),
		capItem: e.item(t, entity.KindPackagingMaterial, "Cap", ""),
		bottle:  e.item(t, entity.KindFinished, "Bottle500ml", ""),
	}
	e.recipe(t, p.syrup.ID, inventory.RecipeLineInput{ComponentID: p.sugar.ID, QuantityPerReferenceUnit: dec("50")})
	e.recipe(t, p.bottle.ID,
		inventory.RecipeLineInput{ComponentID: p.syrup.ID, QuantityPerReferenceUnit: dec("0.5")},
		inventory.RecipeLineInput{ComponentID: p.capItem.ID, QuantityPerReferenceUnit: dec("1")},
	)
	return p
}

// assertBalanceChain verifica que los saldos de cada ítem se encadenan sin huecos.
func assertBalanceChain(t *testing.T, movs []*entity.Movement) {
	t.Helper()
	last := map[string]decimal.Decimal{}
	for _, m := range movs {
		if prev, ok := last[m.ItemID]; ok {
			require.True(t, prev.Equal(m.PreviousBalance), "saldo roto en %s: %s != %s", m.ItemID, prev, m.PreviousBalance)
		}
		last[m.ItemID] = m.NewBalance
	}
}

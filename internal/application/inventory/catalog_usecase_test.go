package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

func TestCreateItem_CodigosPorCategoria(t *testing.T) {
	e := newEnv(t)
	a := e.item(t, entity.KindRawMaterial, "Sugar", "")
	b := e.item(t, entity.KindRawMaterial, "Salt", "")
	c := e.item(t, entity.KindFinished, "Bottle500ml", "")
	d := e.item(t, entity.KindSemiFinished, "Syrup", "100")
	assert.Equal(t, "RM001", a.Code)
	assert.Equal(t, "RM002", b.Code)
	assert.Equal(t, "FP001", c.Code)
	assert.Equal(t, "SF001", d.Code)
	assert.True(t, a.OnHand.IsZero())

	_, err := e.catalog.CreateItem(e.ctx, inventory.CreateItemInput{Kind: entity.KindSemiFinished, Name: "Juice"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "semielaborado sin lote de referencia")
	_, err = e.catalog.CreateItem(e.ctx, inventory.CreateItemInput{Kind: "tool", Name: "Hammer"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = e.catalog.CreateItem(e.ctx, inventory.CreateItemInput{Kind: entity.KindRawMaterial, Name: "  "})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSetRecipe_RechazaDuplicadosYUsadoEn(t *testing.T) {
	e := newEnv(t)
	p := newPlant(t, e)

	_, err := e.catalog.SetRecipe(e.ctx, p.syrup.ID, []inventory.RecipeLineInput{
		{ComponentID: p.sugar.ID, QuantityPerReferenceUnit: dec("50")},
		{ComponentID: p.sugar.ID, QuantityPerReferenceUnit: dec("10")},
	})
	require.Error(t, err)
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 2, de.Line)

	lines, err := e.catalog.GetRecipe(e.ctx, p.syrup.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1, "la receta anterior queda intacta")
	assert.True(t, lines[0].QuantityPerReferenceUnit.Equal(dec("50")))

	used, err := e.catalog.UsedIn(e.ctx, p.syrup.ID)
	require.NoError(t, err)
	require.Len(t, used, 1)
	assert.Equal(t, p.bottle.ID, used[0].OwnerID)

	_, err = e.catalog.SetRecipe(e.ctx, p.syrup.ID, []inventory.RecipeLineInput{{ComponentID: "nope", QuantityPerReferenceUnit: dec("1")}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReceive_CostoPromedio(t *testing.T) {
	e := newEnv(t)
	p := newPlant(t, e)
	e.receive(t, p.sugar.ID, "10", "2")
	e.receive(t, p.sugar.ID, "10", "4")

	view, err := e.catalog.GetItem(e.ctx, p.sugar.ID)
	require.NoError(t, err)
	assert.True(t, view.Item.OnHand.Equal(dec("20")))
	assert.True(t, view.Item.UnitCost.Equal(dec("3")))

	movs, err := e.catalog.ItemMovements(e.ctx, p.sugar.ID, nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.ReferenceReceipt, movs[1].ReferenceType)
	assert.True(t, movs[1].PreviousBalance.Equal(dec("10")))

	_, err = e.catalog.Receive(e.ctx, p.sugar.ID, inventory.ReceiptInput{Quantity: dec("0")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReplenishment_BajoMinimoNetoDeReservas(t *testing.T) {
	e := newEnv(t)
	sugar, err := e.catalog.CreateItem(e.ctx, inventory.CreateItemInput{Kind: entity.KindRawMaterial, Name: "Sugar", MinStock: dec("10"), UnitCost: dec("2")})
	require.NoError(t, err)
	syrup := e.item(t, entity.KindSemiFinished, "Syrup", "100")
	e.recipe(t, syrup.ID, inventory.RecipeLineInput{ComponentID: sugar.ID, QuantityPerReferenceUnit: dec("50")})
	e.receive(t, sugar.ID, "18", "2")

	list, err := e.replenishment.GenerateReplenishmentList(e.ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	// 20 de jarabe reservan 10 de azúcar: disponible 8 < 10
	e.order(t, entity.OrderTypeProduction, syrup.ID, "20")
	list, err = e.replenishment.GenerateReplenishmentList(e.ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	s := list[0]
	assert.Equal(t, sugar.ID, s.Item.ID)
	assert.True(t, s.TrueAvailable.Equal(dec("8")))
	assert.True(t, s.SuggestedQty.Equal(dec("7")), "15 - 8")
	assert.True(t, s.EstimatedOrderCost.Equal(dec("14")))
	assert.Equal(t, inventory.ActionPurchase, s.Action)
	assert.Equal(t, 1, s.Priority)
}

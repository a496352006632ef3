package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/internal/infrastructure/memory"
)

func TestStore_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Repos().Items.Create(ctx, &entity.Item{ID: "sugar", Kind: entity.KindRawMaterial, Code: "RM001", OnHand: decimal.NewFromInt(25)}))

	boom := errors.New("boom")
	err := store.Run(ctx, func(tx repository.Tx) error {
		it, err := tx.Items.GetForUpdate(ctx, "sugar")
		require.NoError(t, err)
		it.OnHand = decimal.Zero
		require.NoError(t, tx.Items.UpdateStock(ctx, it))
		require.NoError(t, tx.Movements.Create(ctx, &entity.Movement{ID: "m1", ItemID: "sugar"}))
		_, err = tx.Sequences.Next(ctx, "code_RM")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	it, err := store.Repos().Items.GetByID(ctx, "sugar")
	require.NoError(t, err)
	assert.True(t, it.OnHand.Equal(decimal.NewFromInt(25)))
	movs, err := store.Repos().Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
	seq, err := store.Repos().Sequences.Next(ctx, "code_RM")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestStore_CommitPublicaYAislaCopias(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	order := &entity.ConversionOrder{
		ID: "o1", Code: "PRD001", Type: entity.OrderTypeProduction, Status: entity.OrderStatusPending,
		Lines: []entity.ConversionOrderLine{{ID: "l1", OutputItemID: "syrup", Quantity: decimal.NewFromInt(20)}},
	}
	require.NoError(t, store.Run(ctx, func(tx repository.Tx) error {
		return tx.Orders.Create(ctx, order)
	}))
	// mutar el puntero del llamador no toca lo guardado
	order.Lines[0].Quantity = decimal.NewFromInt(99)

	got, err := store.Repos().Orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Lines[0].Quantity.Equal(decimal.NewFromInt(20)))

	open, err := store.Repos().Orders.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	missing, err := store.Repos().Orders.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

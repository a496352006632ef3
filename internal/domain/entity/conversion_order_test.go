package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

func TestConversionOrder_CanTransition(t *testing.T) {
	cases := []struct {
		from entity.OrderStatus
		to   entity.OrderStatus
		ok   bool
	}{
		{entity.OrderStatusPending, entity.OrderStatusInProgress, true},
		{entity.OrderStatusPending, entity.OrderStatusCompleted, true},
		{entity.OrderStatusPending, entity.OrderStatusCancelled, true},
		{entity.OrderStatusInProgress, entity.OrderStatusCompleted, true},
		{entity.OrderStatusInProgress, entity.OrderStatusCancelled, true},
		{entity.OrderStatusInProgress, entity.OrderStatusPending, false},
		{entity.OrderStatusCompleted, entity.OrderStatusCancelled, true},
		{entity.OrderStatusCompleted, entity.OrderStatusCompleted, false},
		{entity.OrderStatusCompleted, entity.OrderStatusInProgress, false},
		{entity.OrderStatusCancelled, entity.OrderStatusCancelled, false},
		{entity.OrderStatusCancelled, entity.OrderStatusCompleted, false},
	}
	for _, tc := range cases {
		o := &entity.ConversionOrder{Status: tc.from}
		assert.Equal(t, tc.ok, o.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderType_OutputKind(t *testing.T) {
	assert.Equal(t, entity.KindSemiFinished, entity.OrderTypeProduction.OutputKind())
	assert.Equal(t, entity.KindFinished, entity.OrderTypePackaging.OutputKind())
	assert.False(t, entity.OrderType("x").Valid())
}

func TestCountLine_DiferenciaSeRecalcula(t *testing.T) {
	l := entity.CountLine{SystemQuantity: decimal.NewFromInt(10), CountedQuantity: decimal.NewFromInt(10)}
	now := time.Now()
	l.SetCounted(decimal.NewFromInt(7), now)
	assert.True(t, l.Difference.Equal(decimal.NewFromInt(-3)))
	l.SetCounted(decimal.NewFromInt(12), now)
	assert.True(t, l.Difference.Equal(decimal.NewFromInt(2)))
}

func TestStocktakingScope_Kinds(t *testing.T) {
	s := entity.StocktakingScope{RawMaterials: true, Finished: true}
	assert.Equal(t, []entity.ItemKind{entity.KindRawMaterial, entity.KindFinished}, s.Kinds())
	assert.True(t, entity.StocktakingScope{}.IsEmpty())
}

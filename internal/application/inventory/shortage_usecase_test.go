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

func TestAnalyze_EmpaqueConFaltanteSugiereProduccion(t *testing.T) {
	e := newEnv(t)
	p := newPlant(t, e)
	e.receive(t, p.syrup.ID, "6", "1")
	e.receive(t, p.capItem.ID, "50", "0.1")
	// una orden abierta ya reserva 3 de jarabe
	e.order(t, entity.OrderTypePackaging, p.bottle.ID, "6")

	lines := []inventory.OrderLineInput{{OutputItemID: p.bottle.ID, Quantity: dec("10")}}
	report, err := e.shortage.Analyze(e.ctx, entity.OrderTypePackaging, lines)
	require.NoError(t, err)
	assert.False(t, report.CanComplete)
	require.Len(t, report.Requirements, 2)
	require.Len(t, report.Shortages, 1)

	s := report.Shortages[0]
	assert.Equal(t, p.syrup.ID, s.ItemID)
	assert.True(t, s.Required.Equal(dec("5")))
	assert.True(t, s.Reserved.Equal(dec("3")))
	assert.True(t, s.Available.Equal(dec("3")))
	assert.True(t, s.Shortage.Equal(dec("2")))
	require.NotNil(t, s.Suggested)
	assert.True(t, s.Suggested.Quantity.Equal(dec("2")))

	// la sugerencia se envía explícitamente y se vuelve a analizar
	prod := e.order(t, entity.OrderTypeProduction, p.syrup.ID, s.Suggested.Quantity.String())
	e.receive(t, p.sugar.ID, "1", "2")
	res, err := e.orders.Complete(e.ctx, prod.ID, inventory.CompleteOptions{})
	require.NoError(t, err)
	require.True(t, res.Applied)

	report, err = e.shortage.Analyze(e.ctx, entity.OrderTypePackaging, lines)
	require.NoError(t, err)
	assert.True(t, report.CanComplete)
	assert.Empty(t, report.Shortages)
}

func TestAnalyze_ProduccionSinSugerencia(t *testing.T) {
	e := newEnv(t)
	p := newPlant(t, e)
	report, err := e.shortage.Analyze(e.ctx, entity.OrderTypeProduction,
		[]inventory.OrderLineInput{{OutputItemID: p.syrup.ID, Quantity: dec("20")}})
	require.NoError(t, err)
	assert.False(t, report.CanComplete)
	require.Len(t, report.Shortages, 1)
	assert.Equal(t, p.sugar.ID, report.Shortages[0].ItemID)
	assert.Nil(t, report.Shortages[0].Suggested, "la materia prima se compra, no se produce")
}

func TestAvailability_NetaDelBorrador(t *testing.T) {
	e := newEnv(t)
	p := newPlant(t, e)
	e.receive(t, p.sugar.ID, "25", "2")
	e.order(t, entity.OrderTypeProduction, p.syrup.ID, "20")

	lines, err := e.shortage.Availability(e.ctx, entity.OrderTypeProduction,
		[]inventory.OrderLineInput{{OutputItemID: p.syrup.ID, Quantity: dec("6")}})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Reserved.Equal(dec("10")))
	assert.True(t, lines[0].DraftDemand.Equal(dec("3")))
	assert.True(t, lines[0].TrueAvailable.Equal(dec("12")))
}

func TestAnalyze_Validaciones(t *testing.T) {
	e := newEnv(t)
	p := newPlant(t, e)
	_, err := e.shortage.Analyze(e.ctx, entity.OrderTypePackaging, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = e.shortage.Analyze(e.ctx, entity.OrderTypePackaging,
		[]inventory.OrderLineInput{{OutputItemID: p.syrup.ID, Quantity: dec("1")}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "un semielaborado no sale de una orden de empaque")
}

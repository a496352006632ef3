package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func syrup() *entity.Item {
	return &entity.Item{ID: "syrup", Kind: entity.KindSemiFinished, Code: "SF001", Name: "Syrup", ReferenceBatchSize: dec("100")}
}

func bottle() *entity.Item {
	return &entity.Item{ID: "bottle500", Kind: entity.KindFinished, Code: "FP001", Name: "Bottle500ml"}
}

func TestExpand_SemielaboradoEscalaPorLote(t *testing.T) {
	r, err := inventory.NewRecipe(syrup(), []entity.BOMLine{
		{ComponentID: "sugar", ComponentKind: entity.KindRawMaterial, QuantityPerReferenceUnit: dec("50")},
	})
	require.NoError(t, err)

	reqs, err := r.Expand(dec("20"))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, entity.ItemKey{Kind: entity.KindRawMaterial, ID: "sugar"}, reqs[0].Key)
	assert.True(t, reqs[0].Quantity.Equal(dec("10")), "50 * 20/100 = 10, obtenido %s", reqs[0].Quantity)
}

func TestExpand_TerminadoPorUnidad(t *testing.T) {
	r, err := inventory.NewRecipe(bottle(), []entity.BOMLine{
		{ComponentID: "syrup", ComponentKind: entity.KindSemiFinished, QuantityPerReferenceUnit: dec("0.5")},
		{ComponentID: "cap", ComponentKind: entity.KindPackagingMaterial, QuantityPerReferenceUnit: dec("1")},
	})
	require.NoError(t, err)

	reqs, err := r.Expand(dec("10"))
	require.NoError(t, err)
	got := map[string]decimal.Decimal{}
	for _, q := range reqs {
		got[q.Key.ID] = q.Quantity
	}
	assert.True(t, got["syrup"].Equal(dec("5")))
	assert.True(t, got["cap"].Equal(dec("10")))

	base, ok := r.Base()
	require.True(t, ok)
	assert.Equal(t, "syrup", base.ComponentID)
}

func TestExpand_CantidadNoPositiva(t *testing.T) {
	r, err := inventory.NewRecipe(syrup(), []entity.BOMLine{
		{ComponentID: "sugar", ComponentKind: entity.KindRawMaterial, QuantityPerReferenceUnit: dec("50")},
	})
	require.NoError(t, err)
	_, err = r.Expand(decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestNewRecipe_Validaciones(t *testing.T) {
	cases := []struct {
		name  string
		owner *entity.Item
		lines []entity.BOMLine
		line  int
	}{
		{
			name:  "componente duplicado",
			owner: syrup(),
			lines: []entity.BOMLine{
				{ComponentID: "sugar", ComponentKind: entity.KindRawMaterial, QuantityPerReferenceUnit: dec("50")},
				{ComponentID: "sugar", ComponentKind: entity.KindRawMaterial, QuantityPerReferenceUnit: dec("5")},
			},
			line: 2,
		},
		{
			name:  "empaque en semielaborado",
			owner: syrup(),
			lines: []entity.BOMLine{
				{ComponentID: "cap", ComponentKind: entity.KindPackagingMaterial, QuantityPerReferenceUnit: dec("1")},
			},
			line: 1,
		},
		{
			name:  "cantidad cero",
			owner: syrup(),
			lines: []entity.BOMLine{
				{ComponentID: "sugar", ComponentKind: entity.KindRawMaterial, QuantityPerReferenceUnit: decimal.Zero},
			},
			line: 1,
		},
		{
			name:  "terminado sin base",
			owner: bottle(),
			lines: []entity.BOMLine{
				{ComponentID: "cap", ComponentKind: entity.KindPackagingMaterial, QuantityPerReferenceUnit: dec("1")},
			},
		},
		{
			name:  "terminado con dos bases",
			owner: bottle(),
			lines: []entity.BOMLine{
				{ComponentID: "syrup", ComponentKind: entity.KindSemiFinished, QuantityPerReferenceUnit: dec("0.5")},
				{ComponentID: "juice", ComponentKind: entity.KindSemiFinished, QuantityPerReferenceUnit: dec("0.5")},
			},
		},
		{
			name:  "lote de referencia cero",
			owner: &entity.Item{ID: "x", Kind: entity.KindSemiFinished},
			lines: []entity.BOMLine{
				{ComponentID: "sugar", ComponentKind: entity.KindRawMaterial, QuantityPerReferenceUnit: dec("1")},
			},
		},
		{
			name:  "materia prima sin receta",
			owner: &entity.Item{ID: "sugar", Kind: entity.KindRawMaterial},
			lines: []entity.BOMLine{
				{ComponentID: "salt", ComponentKind: entity.KindRawMaterial, QuantityPerReferenceUnit: dec("1")},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.NewRecipe(tc.owner, tc.lines)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			de, ok := domain.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tc.line, de.Line)
		})
	}
}

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "RM001", inventory.FormatCode("RM", 1, 3))
	assert.Equal(t, "FP014", inventory.FormatCode("FP", 14, 0))
	assert.Equal(t, "PRD1000", inventory.FormatCode("PRD", 1000, 3))
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 a 2.00 + 10 a 4.00 => 3.00
	got := inventory.WeightedAverageCost(dec("10"), dec("2"), dec("10"), dec("4"))
	assert.True(t, got.Equal(dec("3")), "obtenido %s", got)
	// stock negativo: manda el costo de la entrada
	got = inventory.WeightedAverageCost(dec("-5"), dec("2"), dec("10"), dec("4"))
	assert.True(t, got.Equal(dec("4")))
	got = inventory.WeightedAverageCost(decimal.Zero, dec("9"), dec("3"), dec("1.5"))
	assert.True(t, got.Equal(dec("1.5")))
}

func TestUnitCostOf(t *testing.T) {
	assert.True(t, inventory.UnitCostOf(dec("100"), dec("200")).Equal(dec("0.5")))
	assert.True(t, inventory.UnitCostOf(dec("100"), decimal.Zero).IsZero())
}

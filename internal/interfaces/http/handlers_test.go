package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
)

// planta: azúcar -> jarabe (lote 100 con 50 de azúcar); jarabe 0.5 + tapa 1 -> botella.
type plant struct {
	sugar, syrup, cap, bottle dto.ItemResponse
}

func createItem(t *testing.T, app *fiber.App, body map[string]any) dto.ItemResponse {
	t.Helper()
	var it dto.ItemResponse
	mustCall(t, app, http.MethodPost, "/api/items", body, http.StatusCreated, &it)
	return it
}

func newPlant(t *testing.T, app *fiber.App) plant {
	t.Helper()
	p := plant{
		sugar:  createItem(t, app, map[string]any{"kind": "raw_material", "name": "Azúcar", "unit": "kg", "min_stock": 80}),
		syrup:  createItem(t, app, map[string]any{"kind": "semi_finished", "name": "Jarabe", "unit": "l", "reference_batch_size": 100}),
		cap:    createItem(t, app, map[string]any{"kind": "packaging_material", "name": "Tapa", "unit": "und"}),
		bottle: createItem(t, app, map[string]any{"kind": "finished", "name": "Botella 500ml", "unit": "und"}),
	}
	mustCall(t, app, http.MethodPut, "/api/items/"+p.syrup.ID+"/recipe", map[string]any{
		"lines": []map[string]any{{"component_id": p.sugar.ID, "quantity_per_reference_unit": 50}},
	}, http.StatusOK, nil)
	mustCall(t, app, http.MethodPut, "/api/items/"+p.bottle.ID+"/recipe", map[string]any{
		"lines": []map[string]any{
			{"component_id": p.syrup.ID, "quantity_per_reference_unit": 0.5},
			{"component_id": p.cap.ID, "quantity_per_reference_unit": 1},
		},
	}, http.StatusOK, nil)
	return p
}

func getItem(t *testing.T, app *fiber.App, id string) dto.ItemResponse {
	t.Helper()
	var it dto.ItemResponse
	mustCall(t, app, http.MethodGet, "/api/items/"+id, nil, http.StatusOK, &it)
	return it
}

func TestItems_CodesAndRecipes(t *testing.T) {
	app := newTestApp(t, "")
	p := newPlant(t, app)

	assert.Equal(t, "RM001", p.sugar.Code)
	assert.Equal(t, "SF001", p.syrup.Code)
	assert.Equal(t, "PM001", p.cap.Code)
	assert.Equal(t, "FP001", p.bottle.Code)

	var recipe []dto.BOMLineResponse
	mustCall(t, app, http.MethodGet, "/api/items/"+p.bottle.ID+"/recipe", nil, http.StatusOK, &recipe)
	require.Len(t, recipe, 2)

	var usedIn []dto.BOMLineResponse
	mustCall(t, app, http.MethodGet, "/api/items/"+p.syrup.ID+"/used-in", nil, http.StatusOK, &usedIn)
	require.Len(t, usedIn, 1)
	assert.Equal(t, p.bottle.ID, usedIn[0].OwnerID)

	var list dto.ItemListResponse
	mustCall(t, app, http.MethodGet, "/api/items?kind=raw_material,packaging_material", nil, http.StatusOK, &list)
	assert.Len(t, list.Items, 2)

	// una receta de semielaborado no acepta empaques
	status, raw := call(t, app, http.MethodPut, "/api/items/"+p.syrup.ID+"/recipe", map[string]any{
		"lines": []map[string]any{{"component_id": p.cap.ID, "quantity_per_reference_unit": 1}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, status, string(raw))
}

func TestItems_ErrorMapping(t *testing.T) {
	app := newTestApp(t, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"ítem inexistente", http.MethodGet, "/api/items/no-existe", nil, http.StatusNotFound, "NOT_FOUND"},
		{"tipo desconocido", http.MethodPost, "/api/items", map[string]any{"kind": "x", "name": "X"}, http.StatusBadRequest, "VALIDATION"},
		{"semielaborado sin lote", http.MethodPost, "/api/items", map[string]any{"kind": "semi_finished", "name": "Jarabe"}, http.StatusBadRequest, "VALIDATION"},
		{"filtro inválido", http.MethodGet, "/api/items?kind=otro", nil, http.StatusBadRequest, "VALIDATION"},
		{"orden inexistente", http.MethodPost, "/api/orders/no-existe/complete", nil, http.StatusNotFound, "NOT_FOUND"},
		{"orden sin líneas", http.MethodPost, "/api/orders", map[string]any{"type": "production"}, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := call(t, app, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.status, status, string(raw))
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestItems_InvalidBody(t *testing.T) {
	app := newTestApp(t, "")
	req := []byte(`{"kind":`)
	status, raw := callRaw(t, app, http.MethodPost, "/api/items", req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "INVALID_BODY")
}

func TestOrders_ApplyAndReverse(t *testing.T) {
	app := newTestApp(t, "")
	p := newPlant(t, app)
	mustCall(t, app, http.MethodPost, "/api/items/"+p.sugar.ID+"/receipts",
		map[string]any{"quantity": 100, "unit_cost": 2}, http.StatusCreated, nil)

	var order dto.OrderResponse
	mustCall(t, app, http.MethodPost, "/api/orders", map[string]any{
		"type":  "production",
		"lines": []map[string]any{{"output_item_id": p.syrup.ID, "quantity": 200}},
	}, http.StatusCreated, &order)
	assert.Equal(t, "PRD001", order.Code)
	assert.Equal(t, "pending", order.Status)

	// la orden abierta reserva 100 de azúcar
	var res dto.ReservationsResponse
	mustCall(t, app, http.MethodGet, "/api/reservations", nil, http.StatusOK, &res)
	assert.Equal(t, 1, res.OpenOrders)
	require.Len(t, res.Entries, 1)
	assert.True(t, dec("100").Equal(res.Entries[0].Quantity))
	sugar := getItem(t, app, p.sugar.ID)
	require.NotNil(t, sugar.TrueAvailable)
	assert.True(t, sugar.TrueAvailable.IsZero())

	mustCall(t, app, http.MethodPost, "/api/orders/"+order.ID+"/start", nil, http.StatusOK, &order)
	assert.Equal(t, "in_progress", order.Status)

	var done dto.CompletionResponse
	mustCall(t, app, http.MethodPost, "/api/orders/"+order.ID+"/complete", nil, http.StatusOK, &done)
	assert.True(t, done.Applied)
	assert.Empty(t, done.Deficits)
	assert.Equal(t, "completed", done.Order.Status)
	assert.True(t, dec("200").Equal(done.Order.TotalCost), done.Order.TotalCost.String())
	assert.True(t, getItem(t, app, p.sugar.ID).OnHand.IsZero())
	syrup := getItem(t, app, p.syrup.ID)
	assert.True(t, dec("200").Equal(syrup.OnHand))
	assert.True(t, dec("1").Equal(syrup.UnitCost), syrup.UnitCost.String())

	var movs []dto.MovementResponse
	mustCall(t, app, http.MethodGet, "/api/orders/"+order.ID+"/movements", nil, http.StatusOK, &movs)
	assert.Len(t, movs, 2)

	mustCall(t, app, http.MethodPost, "/api/orders/"+order.ID+"/cancel", nil, http.StatusOK, &order)
	assert.Equal(t, "cancelled", order.Status)
	assert.True(t, dec("100").Equal(getItem(t, app, p.sugar.ID).OnHand))
	assert.True(t, getItem(t, app, p.syrup.ID).OnHand.IsZero())

	status, raw := call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/cancel", nil, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(raw), "INVALID_STATE_TRANSITION")

	var ledger []dto.MovementResponse
	mustCall(t, app, http.MethodGet, "/api/items/"+p.sugar.ID+"/movements", nil, http.StatusOK, &ledger)
	require.Len(t, ledger, 3) // entrada, consumo, reversión
	for i := 1; i < len(ledger); i++ {
		assert.True(t, ledger[i-1].NewBalance.Equal(ledger[i].PreviousBalance))
	}
}

func TestOrders_ShortageNeedsConfirmation(t *testing.T) {
	app := newTestApp(t, "")
	p := newPlant(t, app)

	var report dto.ShortageReportResponse
	mustCall(t, app, http.MethodPost, "/api/orders/analyze", map[string]any{
		"type":  "packaging",
		"lines": []map[string]any{{"output_item_id": p.bottle.ID, "quantity": 100}},
	}, http.StatusOK, &report)
	assert.False(t, report.CanComplete)
	require.Len(t, report.Shortages, 2)
	var suggested *dto.SuggestedProductionResponse
	for _, s := range report.Shortages {
		if s.ItemID == p.syrup.ID {
			suggested = s.Suggested
		}
	}
	require.NotNil(t, suggested)
	assert.True(t, dec("50").Equal(suggested.Quantity))

	var order dto.OrderResponse
	mustCall(t, app, http.MethodPost, "/api/orders", map[string]any{
		"type":  "packaging",
		"lines": []map[string]any{{"output_item_id": p.bottle.ID, "quantity": 10}},
	}, http.StatusCreated, &order)
	assert.Equal(t, "PKG001", order.Code)

	var first dto.CompletionResponse
	mustCall(t, app, http.MethodPost, "/api/orders/"+order.ID+"/complete", nil, http.StatusOK, &first)
	assert.False(t, first.Applied)
	assert.Len(t, first.Deficits, 2)
	assert.True(t, getItem(t, app, p.syrup.ID).OnHand.IsZero())

	var forced dto.CompletionResponse
	mustCall(t, app, http.MethodPost, "/api/orders/"+order.ID+"/complete",
		map[string]any{"allow_negative": true}, http.StatusOK, &forced)
	assert.True(t, forced.Applied)
	assert.True(t, dec("-5").Equal(getItem(t, app, p.syrup.ID).OnHand))
	assert.True(t, dec("10").Equal(getItem(t, app, p.bottle.ID).OnHand))
}

func TestAvailabilityAndReplenishment(t *testing.T) {
	app := newTestApp(t, "")
	p := newPlant(t, app)
	mustCall(t, app, http.MethodPost, "/api/items/"+p.sugar.ID+"/receipts",
		map[string]any{"quantity": 100, "unit_cost": 2}, http.StatusCreated, nil)

	var avail []dto.AvailabilityResponse
	mustCall(t, app, http.MethodPost, "/api/availability", map[string]any{
		"type":  "production",
		"lines": []map[string]any{{"output_item_id": p.syrup.ID, "quantity": 100}},
	}, http.StatusOK, &avail)
	require.Len(t, avail, 1)
	assert.True(t, dec("50").Equal(avail[0].TrueAvailable))

	// una orden abierta de 100 de jarabe deja el azúcar en 50 disponibles, bajo el mínimo de 80
	mustCall(t, app, http.MethodPost, "/api/orders", map[string]any{
		"type":  "production",
		"lines": []map[string]any{{"output_item_id": p.syrup.ID, "quantity": 100}},
	}, http.StatusCreated, nil)

	var out struct {
		Total          int                              `json:"total"`
		Replenishments []dto.ReplenishmentSuggestionDTO `json:"replenishments"`
	}
	mustCall(t, app, http.MethodGet, "/api/replenishment?kind=raw_material", nil, http.StatusOK, &out)
	require.Equal(t, 1, out.Total)
	r := out.Replenishments[0]
	assert.Equal(t, p.sugar.ID, r.ItemID)
	assert.True(t, dec("50").Equal(r.TrueAvailable))
	assert.True(t, dec("70").Equal(r.SuggestedQty), r.SuggestedQty.String())
	assert.Equal(t, "purchase", r.Action)
	assert.Equal(t, 1, r.Priority)
}

func TestStocktaking_Flow(t *testing.T) {
	app := newTestApp(t, "")
	p := newPlant(t, app)
	mustCall(t, app, http.MethodPost, "/api/items/"+p.sugar.ID+"/receipts",
		map[string]any{"quantity": 100, "unit_cost": 2}, http.StatusCreated, nil)

	var s dto.StocktakingResponse
	mustCall(t, app, http.MethodPost, "/api/stocktaking", map[string]any{
		"scope": map[string]any{"raw_materials": true},
		"start": true,
	}, http.StatusCreated, &s)
	assert.Equal(t, "STK001", s.Code)
	assert.Equal(t, "in_progress", s.Status)
	require.Len(t, s.Lines, 1)

	mustCall(t, app, http.MethodPut, "/api/stocktaking/"+s.ID+"/counts", map[string]any{
		"counts": []map[string]any{{"item_id": p.sugar.ID, "quantity": 90}},
	}, http.StatusOK, &s)
	assert.True(t, dec("-10").Equal(s.Lines[0].Difference))

	var rec dto.ReconcileResponse
	mustCall(t, app, http.MethodPost, "/api/stocktaking/"+s.ID+"/reconcile", nil, http.StatusOK, &rec)
	assert.Equal(t, "completed", rec.Session.Status)
	require.Len(t, rec.Adjustments, 1)
	assert.Equal(t, "adjustment", rec.Adjustments[0].Direction)
	assert.True(t, dec("90").Equal(getItem(t, app, p.sugar.ID).OnHand))

	status, _ := call(t, app, http.MethodPost, "/api/stocktaking/"+s.ID+"/reconcile", nil, "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, app, http.MethodPost, "/api/stocktaking", map[string]any{"scope": map[string]any{}}, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

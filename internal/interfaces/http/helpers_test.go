package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Fabrica-api/internal/interfaces/http"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "operario-7"
	testIssuer    = "fabrica-test"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newTestApp arma la API completa sobre el almacenamiento en memoria.
func newTestApp(t *testing.T, secret string) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	log := logger.Nop()
	res := inventory.NewReservationUseCase(repos, inventory.NewMemoryReservationCache(time.Minute), log)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Catalog:       inventory.NewCatalogUseCase(store, repos, res, log, 3),
		Conversion:    inventory.NewConversionUseCase(store, repos, res, log, 3),
		Shortage:      inventory.NewShortageUseCase(repos, res),
		Reservations:  res,
		Replenishment: inventory.NewReplenishmentUseCase(repos, res),
		Stocktaking:   inventory.NewStocktakingUseCase(store, repos, log, 3),
		JWTSecret:     secret,
	})
	return app
}

// call lanza la petición y devuelve status y cuerpo crudo.
func call(t *testing.T, app *fiber.App, method, path string, body any, authHeader string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// mustCall exige el status esperado y decodifica la respuesta en out (si no es nil).
func mustCall(t *testing.T, app *fiber.App, method, path string, body any, want int, out any) {
	t.Helper()
	status, raw := call(t, app, method, path, body, "")
	require.Equal(t, want, status, "%s %s -> %s", method, path, string(raw))
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out))
	}
}

func callRaw(t *testing.T, app *fiber.App, method, path string, body []byte) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

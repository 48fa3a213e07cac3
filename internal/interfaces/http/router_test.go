package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-api/internal/application/auth"
	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/application/reporting"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/lotes-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/lotes-api/internal/interfaces/http"
)

const (
	apiProductID  = "00000000-0000-0000-0000-000000000011"
	apiLocationID = "00000000-0000-0000-0000-000000000012"
)

// buildAPI arma la aplicación completa sobre el store en memoria, igual que
// main pero sin PostgreSQL.
func buildAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.SeedProduct(&entity.Product{
		ID: apiProductID, Code: "SKU-001", Name: "Leche entera 1L",
		UnitsPerPallet: 600, UnitMeasure: "unidad",
	})
	store.SeedLocation(&entity.Location{ID: apiLocationID, Code: "CD-NORTE", Name: "Centro de Distribución Norte"})

	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		LotUC:        appinventory.NewLotUseCase(store, store.Lots(), store.Products(), store.Locations()),
		AllocateUC:   appinventory.NewAllocateUseCase(store, store.Products()),
		ImportUC:     appinventory.NewImportUseCase(store, store.Products(), store.Locations()),
		ReportUC:     reporting.NewExpirationUseCase(store.Lots(), store.Movements(), store.Locations()),
		AuthUC:       authUC,
		Labels:       infrapdf.NewMarotoLabelGenerator(),
		MovementRepo: store.Movements(),
		AllocRepo:    store.Allocations(),
		ProductRepo:  store.Products(),
		LocationRepo: store.Locations(),
		JWTSecret:    testJWTSecret,
	})
	return app, store
}

// registerAndLogin da de alta un usuario y devuelve su Bearer token.
func registerAndLogin(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"password":"secreto-123","name":"Operador Turno A","role":%q}`, email, role)
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, readBody(t, resp))
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fmt.Sprintf(`{"email":%q,"password":"secreto-123"}`, email))
	require.Equal(t, http.StatusOK, resp.StatusCode, readBody(t, resp))
	defer resp.Body.Close()

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return "Bearer " + out.Token
}

func doJSON(t *testing.T, app *fiber.App, method, path, authHeader, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, _ := io.ReadAll(resp.Body)
	// Se usa como argumento de mensaje en aserciones, así que se evalúa
	// siempre; reponer el cuerpo para que el llamador pueda decodificarlo.
	resp.Body = io.NopCloser(bytes.NewReader(b))
	return string(b)
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: recepción → asignación → conciliación → reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FlujoCompletoDeLote(t *testing.T) {
	app, _ := buildAPI(t)
	token := registerAndLogin(t, app, "operador@planta.co", "operario")

	// 1. Alta del lote desde la recepción, etiquetado por el subsistema T1.
	createBody := `{
		"product_id":  "` + apiProductID + `",
		"location_id": "` + apiLocationID + `",
		"code": "L-2025-001",
		"expiration_date": "2025-12-31",
		"quantity_total": 100,
		"unit_cost": "1250.50",
		"shipment_ref": "REM-778"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/lots", bytes.NewReader([]byte(createBody)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("Authorization", token)
	req.Header.Set(apphttp.HeaderOriginModule, "T1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, readBody(t, resp))

	var lot struct {
		ID                string `json:"id"`
		QuantityAvailable int64  `json:"quantity_available"`
	}
	decodeBody(t, resp, &lot)
	resp.Body.Close()
	assert.Equal(t, int64(100), lot.QuantityAvailable)

	// 2. Asignación de 40 a una línea de pedido (selección automática).
	resp = doJSON(t, app, http.MethodPost, "/api/allocations", token,
		`{"order_ref":"PED-1001","product_id":"`+apiProductID+`","location_id":"`+apiLocationID+`","quantity":40}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, readBody(t, resp))
	var allocation struct {
		ID    string `json:"id"`
		LotID string `json:"lot_id"`
	}
	decodeBody(t, resp, &allocation)
	resp.Body.Close()
	assert.Equal(t, lot.ID, allocation.LotID)

	// 3. Pedir 70 con 60 disponibles → 409 sin efectos.
	resp = doJSON(t, app, http.MethodPost, "/api/allocations", token,
		`{"order_ref":"PED-1002","product_id":"`+apiProductID+`","location_id":"`+apiLocationID+`","quantity":70}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "INSUFFICIENT_QUANTITY")
	resp.Body.Close()

	// 4. Conciliación de -10 por avería → disponible 50.
	resp = doJSON(t, app, http.MethodPost, "/api/reconciliation/import", token,
		`{"rows":[{"lot_reference":"L-2025-001","product_code":"SKU-001","expiration_date":"2025-12-31","quantity":"-10","reason":"avería"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, readBody(t, resp))
	var importOut struct {
		AcceptedCount int `json:"accepted_count"`
		RejectedCount int `json:"rejected_count"`
		Accepted      []struct {
			NewAvailable int64 `json:"new_available"`
		} `json:"accepted"`
	}
	decodeBody(t, resp, &importOut)
	resp.Body.Close()
	assert.Equal(t, 1, importOut.AcceptedCount)
	assert.Equal(t, 0, importOut.RejectedCount)
	require.Len(t, importOut.Accepted, 1)
	assert.Equal(t, int64(50), importOut.Accepted[0].NewAvailable)

	// 5. El libro registra IN + OUT + BALANCE para el lote.
	resp = doJSON(t, app, http.MethodGet, "/api/movements?lot_id="+lot.ID, token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movements struct {
		Total     int `json:"total"`
		Movements []struct {
			Type          string `json:"type"`
			QuantityAfter int64  `json:"quantity_after"`
		} `json:"movements"`
	}
	decodeBody(t, resp, &movements)
	resp.Body.Close()
	require.Equal(t, 3, movements.Total)
	assert.Equal(t, "BALANCE", movements.Movements[0].Type, "más reciente primero")
	assert.Equal(t, int64(50), movements.Movements[0].QuantityAfter)

	// 6. Reporte de proximidad a vencimiento encuentra el lote.
	resp = doJSON(t, app, http.MethodGet,
		"/api/reports/near-expiration?location_id="+apiLocationID+"&as_of=2025-12-20&window_days=30", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, readBody(t, resp))
	var report struct {
		Total   int `json:"total"`
		Buckets []struct {
			QuantityAvailable int64 `json:"quantity_available"`
			DaysToExpiration  int   `json:"days_to_expiration"`
		} `json:"buckets"`
	}
	decodeBody(t, resp, &report)
	resp.Body.Close()
	require.Equal(t, 1, report.Total)
	assert.Equal(t, int64(50), report.Buckets[0].QuantityAvailable)
	assert.Equal(t, 11, report.Buckets[0].DaysToExpiration)

	// 7. Liberar la asignación devuelve la cantidad.
	resp = doJSON(t, app, http.MethodDelete, "/api/allocations/"+allocation.ID, token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, readBody(t, resp))
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/lots/"+lot.ID, token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after struct {
		QuantityAvailable int64 `json:"quantity_available"`
	}
	decodeBody(t, resp, &after)
	resp.Body.Close()
	assert.Equal(t, int64(90), after.QuantityAvailable,
		"50 tras la conciliación + 40 devueltos por la liberación")
}

func TestAPI_EtiquetaPDF(t *testing.T) {
	app, _ := buildAPI(t)
	token := registerAndLogin(t, app, "operador@planta.co", "operario")

	resp := doJSON(t, app, http.MethodPost, "/api/lots", token, `{
		"product_id":  "`+apiProductID+`",
		"location_id": "`+apiLocationID+`",
		"code": "L-2025-009",
		"expiration_date": "2026-03-31",
		"quantity_total": 600,
		"unit_cost": "980",
		"shipment_ref": "REM-901"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, readBody(t, resp))
	var lot struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &lot)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/lots/"+lot.ID+"/label", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")), "el cuerpo debe ser un PDF")
}

// La cancelación de lote es operación de admin; un operario recibe 403.
func TestAPI_CancelarLoteRequiereAdmin(t *testing.T) {
	app, _ := buildAPI(t)
	operario := registerAndLogin(t, app, "operador@planta.co", "operario")
	admin := registerAndLogin(t, app, "admin@planta.co", "admin")

	resp := doJSON(t, app, http.MethodPost, "/api/lots", operario, `{
		"product_id":  "`+apiProductID+`",
		"location_id": "`+apiLocationID+`",
		"code": "L-2025-010",
		"expiration_date": "2026-03-31",
		"quantity_total": 50,
		"unit_cost": "0",
		"shipment_ref": "REM-902"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, readBody(t, resp))
	var lot struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &lot)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/lots/"+lot.ID, operario, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/lots/"+lot.ID, admin, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, readBody(t, resp))
	resp.Body.Close()
}

func TestAPI_RutasProtegidasSinToken(t *testing.T) {
	app, _ := buildAPI(t)
	for _, path := range []string{"/api/lots", "/api/movements", "/api/products"} {
		resp := doJSON(t, app, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}

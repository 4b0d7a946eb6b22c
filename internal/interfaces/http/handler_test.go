package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/application/auth"
	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/internal/infrastructure/export"
	"github.com/jhoicas/turnos-api/internal/infrastructure/memory"
	"github.com/jhoicas/turnos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/turnos-api/internal/interfaces/http"
	"github.com/jhoicas/turnos-api/pkg/clock"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

// apiEnv expone la aplicación y el broker que señala cambios de tickets.
type apiEnv struct {
	app    *fiber.App
	broker *queue.Broker
}

// newAPI arma la aplicación completa sobre el store en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	return newAPIEnv(t).app
}

func newAPIEnv(t *testing.T) apiEnv {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	clk := clock.Fake(time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC))
	log := logger.Nop()
	jwtCfg := auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 30, Issuer: testIssuer}

	broker := queue.NewBroker()
	ticketUC := queue.NewTicketUseCase(store, repos.Tickets, repos.Locations, broker, clk, log)
	deps := apphttp.RouterDeps{
		CompanyUC:  usecase.NewCompanyUseCase(repos.Companies, clk),
		BranchUC:   usecase.NewBranchUseCase(store, repos.Branches, repos.Companies, clk),
		ServiceUC:  usecase.NewServiceUseCase(repos.Services, repos.Branches),
		LocationUC: usecase.NewLocationUseCase(repos.Locations, repos.Branches, clk),
		FunctionUC: usecase.NewFunctionUseCase(repos.Functions, repos.Branches),
		UserUC:     usecase.NewUserUseCase(store, repos.Users, clk),
		TicketUC:   ticketUC,
		DocumentUC: queue.NewDocumentUseCase(repos.Tickets, repos.Branches, pdf.NewReceiptGenerator(), export.NewSheetExporter(), time.UTC),
		Feed:       queue.NewFeed(repos.Tickets, broker, clk, time.Second, log),
		AuthUC:     auth.NewAuthUseCase(repos.Users, jwtCfg),
		ClientUC:   auth.NewClientUseCase(repos.Clients, jwtCfg, clk),
		JWTSecret:  testJWTSecret,
		AppName:    "turnos-test",
		Log:        log,
	}
	app := fiber.New(fiber.Config{Immutable: true, ErrorHandler: apphttp.FiberErrorHandler(log)})
	apphttp.Router(app, deps)
	return apiEnv{app: app, broker: broker}
}

type result struct {
	status int
	header http.Header
	body   []byte
}

func (r result) json(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(r.body, &m), string(r.body))
	return m
}

func (r result) list(t *testing.T) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(r.body, &l), string(r.body))
	return l
}

func call(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) result {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return result{status: resp.StatusCode, header: resp.Header, body: raw}
}

// seedQueue crea empresa, sede, puesto y un servicio "A" con rango 1..3.
func seedQueue(t *testing.T, app *fiber.App) {
	t.Helper()
	r := call(t, app, http.MethodPost, "/empresas", fiber.Map{"id": "emp-1", "nombre": "Clínica Sur"})
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	r = call(t, app, http.MethodPost, "/sedes", fiber.Map{"id": "sede-1", "nombre": "Centro", "empresa_id": "emp-1"})
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	r = call(t, app, http.MethodPost, "/locaciones", fiber.Map{"id": "puesto-1", "nombre": "Ventanilla 1", "sede_id": "sede-1"})
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	r = call(t, app, http.MethodPost, "/servicios", fiber.Map{
		"id": "srv-a", "nombre": "Caja", "sede_id": "sede-1",
		"identificador_letra": "a", "rango_inicio": 1, "rango_fin": 3,
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
}

func newTicket(t *testing.T, app *fiber.App) map[string]any {
	t.Helper()
	r := call(t, app, http.MethodPost, "/tickets/crear", fiber.Map{"servicio_id": "srv-a", "sede_id": "sede-1"})
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	return r.json(t)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tickets
// ──────────────────────────────────────────────────────────────────────────────

func TestTickets_CicloCompleto(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)

	tk := newTicket(t, app)
	id := tk["id"].(string)
	assert.Equal(t, "A-1", tk["codigo"])
	assert.Equal(t, "Caja", tk["servicio_nombre"])
	assert.Equal(t, "pendiente", tk["estado"])
	assert.Equal(t, "No asignado", tk["puesto_nombre"])
	assert.Nil(t, tk["hora_llamado"])

	r := call(t, app, http.MethodPut, "/tickets/llamar/"+id, fiber.Map{"puesto_id": "puesto-1"})
	require.Equal(t, http.StatusOK, r.status, string(r.body))
	called := r.json(t)
	assert.Equal(t, "llamado", called["estado"])
	assert.Equal(t, "Ventanilla 1", called["puesto_nombre"])
	assert.NotNil(t, called["hora_llamado"])

	r = call(t, app, http.MethodPut, "/tickets/llamar/"+id, nil)
	assert.Equal(t, http.StatusConflict, r.status, "llamar un ticket ya llamado es conflicto")

	r = call(t, app, http.MethodPut, "/tickets/cerrar/"+id, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "cerrado", r.json(t)["estado"])

	r = call(t, app, http.MethodGet, "/tickets/"+id, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "cerrado", r.json(t)["estado"])

	r = call(t, app, http.MethodDelete, "/tickets/eliminar/"+id, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "Ticket eliminado correctamente", r.json(t)["mensaje"])

	r = call(t, app, http.MethodGet, "/tickets/"+id, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "Ticket no encontrado", r.json(t)["detail"])
}

func TestTickets_ServicioInexistente404(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)

	r := call(t, app, http.MethodPost, "/tickets/crear", fiber.Map{"servicio_id": "nada", "sede_id": "sede-1"})
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "Servicio no encontrado", r.json(t)["detail"])
}

func TestTickets_ListaPorSedeYEstado(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)
	first := newTicket(t, app)
	newTicket(t, app)
	newTicket(t, app)
	wrapped := newTicket(t, app)
	assert.Equal(t, "A-1", wrapped["codigo"], "el rango 1..3 vuelve al inicio")

	r := call(t, app, http.MethodPut, "/tickets/llamar/"+first["id"].(string), nil)
	require.Equal(t, http.StatusOK, r.status)

	r = call(t, app, http.MethodGet, "/tickets/sede/sede-1", nil)
	require.Equal(t, http.StatusOK, r.status)
	all := r.list(t)
	require.Len(t, all, 4)
	assert.Equal(t, first["id"], all[0]["id"])

	r = call(t, app, http.MethodGet, "/tickets/sede/sede-1/estado/pendiente", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Len(t, r.list(t), 3)

	r = call(t, app, http.MethodGet, "/tickets/sede/sede-1/estado/perdido", nil)
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = call(t, app, http.MethodGet, "/tickets/sede/otra", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Empty(t, r.list(t))
}

func TestTickets_ClaveIdempotenciaConOtroServicio409(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)
	r := call(t, app, http.MethodPost, "/servicios", fiber.Map{
		"id": "srv-b", "nombre": "Asesoría", "sede_id": "sede-1",
		"identificador_letra": "b", "rango_inicio": 1, "rango_fin": 9,
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.body))

	a := call(t, app, http.MethodPost, "/tickets/crear", fiber.Map{"servicio_id": "srv-a", "sede_id": "sede-1"}, apphttp.IdempotencyHeader, "k-1")
	require.Equal(t, http.StatusCreated, a.status)
	b := call(t, app, http.MethodPost, "/tickets/crear", fiber.Map{"servicio_id": "srv-b", "sede_id": "sede-1"}, apphttp.IdempotencyHeader, "k-1")
	assert.Equal(t, http.StatusConflict, b.status)
	assert.Equal(t, "CONFLICT", b.json(t)["code"])
}

func TestTickets_ClaveIdempotencia(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)
	body := fiber.Map{"servicio_id": "srv-a", "sede_id": "sede-1"}

	a := call(t, app, http.MethodPost, "/tickets/crear", body, apphttp.IdempotencyHeader, "k-1")
	b := call(t, app, http.MethodPost, "/tickets/crear", body, apphttp.IdempotencyHeader, "k-1")
	require.Equal(t, http.StatusCreated, a.status)
	require.Equal(t, http.StatusCreated, b.status)
	assert.Equal(t, a.json(t)["id"], b.json(t)["id"])

	next := newTicket(t, app)
	assert.Equal(t, "A-2", next["codigo"], "el reintento no consume número")
}

func TestTickets_CuerpoInvalido(t *testing.T) {
	app := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/tickets/crear", bytes.NewBufferString("{no json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "INVALID_BODY")
}

func TestTickets_ComprobanteYExportacion(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)
	tk := newTicket(t, app)

	r := call(t, app, http.MethodGet, "/tickets/"+tk["id"].(string)+"/comprobante", nil)
	require.Equal(t, http.StatusOK, r.status, string(r.body))
	assert.Equal(t, "application/pdf", r.header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(r.body, []byte("%PDF")))

	r = call(t, app, http.MethodGet, "/tickets/nada/comprobante", nil)
	assert.Equal(t, http.StatusNotFound, r.status)

	r = call(t, app, http.MethodGet, "/tickets/sede/sede-1/export?estado=pendiente", nil)
	require.Equal(t, http.StatusOK, r.status, string(r.body))
	assert.Contains(t, r.header.Get("Content-Type"), "spreadsheetml")
	assert.True(t, bytes.HasPrefix(r.body, []byte("PK")), "xlsx es un zip")

	r = call(t, app, http.MethodGet, "/tickets/sede/otra/export", nil)
	assert.Equal(t, http.StatusNotFound, r.status)
}

func TestTicketFeed_SinUpgradeRetorna426(t *testing.T) {
	app := newAPI(t)
	r := call(t, app, http.MethodGet, "/tickets/ws/ticket/t-1", nil)
	assert.Equal(t, http.StatusUpgradeRequired, r.status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Servicios
// ──────────────────────────────────────────────────────────────────────────────

func TestServicios_ActivarYGenerarTurno(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)

	r := call(t, app, http.MethodGet, "/servicios/srv-a", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "A", r.json(t)["identificador_letra"])

	r = call(t, app, http.MethodPost, "/servicios/srv-a/generar_turno", nil)
	require.Equal(t, http.StatusOK, r.status)
	turno := r.json(t)
	assert.Equal(t, "A001", turno["turno"])
	assert.EqualValues(t, 1, turno["numero"])

	r = call(t, app, http.MethodPut, "/servicios/srv-a?activo=false", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, false, r.json(t)["activo"])

	r = call(t, app, http.MethodPost, "/tickets/crear", fiber.Map{"servicio_id": "srv-a", "sede_id": "sede-1"})
	assert.Equal(t, http.StatusConflict, r.status, "servicio inactivo no emite")

	r = call(t, app, http.MethodPut, "/servicios/srv-a?activo=quizas", nil)
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = call(t, app, http.MethodPost, "/servicios/nada/generar_turno", nil)
	assert.Equal(t, http.StatusNotFound, r.status)
}

func TestServicios_ActualizarYEmitirDeNuevo(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)
	newTicket(t, app)

	r := call(t, app, http.MethodPut, "/servicios/srv-a?activo=true", nil)
	require.Equal(t, http.StatusOK, r.status)
	second := newTicket(t, app)
	assert.Equal(t, "A-2", second["codigo"])

	r = call(t, app, http.MethodPut, "/servicios/srv-a?activo=false", nil)
	require.Equal(t, http.StatusOK, r.status)
	r = call(t, app, http.MethodPut, "/servicios/srv-a?activo=true", nil)
	require.Equal(t, http.StatusOK, r.status)
	// otras peticiones reutilizan el buffer antes de volver a emitir
	for i := 0; i < 3; i++ {
		call(t, app, http.MethodGet, "/servicios/zzzzz", nil)
	}
	third := newTicket(t, app)
	assert.Equal(t, "A-3", third["codigo"])

	r = call(t, app, http.MethodPut, "/empresas/emp-1", fiber.Map{"nombre": "Clínica Norte"})
	require.Equal(t, http.StatusOK, r.status, string(r.body))
	call(t, app, http.MethodGet, "/empresas/zzzzz", nil)
	r = call(t, app, http.MethodGet, "/empresas/emp-1", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "Clínica Norte", r.json(t)["nombre"])
}

func TestServicios_RangoInvalido(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)

	r := call(t, app, http.MethodPost, "/servicios", fiber.Map{
		"nombre": "Mal", "sede_id": "sede-1", "identificador_letra": "B", "rango_inicio": 5, "rango_fin": 5,
	})
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = call(t, app, http.MethodGet, "/servicios/sede/sede-1", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Len(t, r.list(t), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo y clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestSedes_ContadorDeEmpresa(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)

	r := call(t, app, http.MethodGet, "/empresas/emp-1", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.EqualValues(t, 1, r.json(t)["cantidad_sedes"])

	r = call(t, app, http.MethodGet, "/sedes/empresa/emp-1", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Len(t, r.list(t), 1)

	r = call(t, app, http.MethodPost, "/sedes", fiber.Map{"nombre": "Norte", "empresa_id": "nada"})
	assert.Equal(t, http.StatusNotFound, r.status)
}

func TestUsuarios_UsernameDuplicado400(t *testing.T) {
	app := newAPI(t)
	seedQueue(t, app)
	user := fiber.Map{"nombre": "Ana", "username": "ana", "password": "secreto1", "sede_id": "sede-1"}

	r := call(t, app, http.MethodPost, "/usuarios", user)
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	created := r.json(t)
	assert.NotContains(t, created, "password")
	assert.Equal(t, "emp-1", created["empresa_id"])

	r = call(t, app, http.MethodPost, "/usuarios", user)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "El username ya está en uso", r.json(t)["detail"])

	r = call(t, app, http.MethodPost, "/auth/login", fiber.Map{"username": "ana", "password": "secreto1"})
	require.Equal(t, http.StatusOK, r.status)
	assert.NotEmpty(t, r.json(t)["access_token"])

	r = call(t, app, http.MethodPost, "/auth/login", fiber.Map{"username": "ana", "password": "otra"})
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

func TestClientes_RegistroLoginYMe(t *testing.T) {
	app := newAPI(t)

	r := call(t, app, http.MethodPost, "/clientes", fiber.Map{"nombre": "Luis", "email": "luis@mail.com", "password": "secreto1"})
	require.Equal(t, http.StatusCreated, r.status, string(r.body))

	r = call(t, app, http.MethodPost, "/clientes", fiber.Map{"nombre": "Luis", "email": "LUIS@mail.com", "password": "secreto1"})
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = call(t, app, http.MethodPost, "/login", fiber.Map{"email": "luis@mail.com", "password": "secreto1"})
	require.Equal(t, http.StatusOK, r.status)
	token := r.json(t)["access_token"].(string)

	r = call(t, app, http.MethodGet, "/clientes/me", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "luis@mail.com", r.json(t)["email"])

	r = call(t, app, http.MethodGet, "/clientes/me", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

func TestRutaDesconocida_RespondeJSON(t *testing.T) {
	app := newAPI(t)
	r := call(t, app, http.MethodGet, "/no/existe", nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "HTTP", r.json(t)["code"])

	r = call(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "ok", r.json(t)["status"])
}

package http_test

import (
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/application/dto"
)

// serve levanta la aplicación en un puerto local y devuelve la URL base ws://.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "ws://" + ln.Addr().String()
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	return conn
}

func readTicket(t *testing.T, conn *websocket.Conn) dto.TicketResponse {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var out dto.TicketResponse
	require.NoError(t, conn.ReadJSON(&out))
	return out
}

func TestTicketFeed_EnviaSoloCambiosYLiberaAlCerrar(t *testing.T) {
	env := newAPIEnv(t)
	seedQueue(t, env.app)
	tk := newTicket(t, env.app)
	id := tk["id"].(string)
	base := serve(t, env.app)

	conn := dial(t, base+"/tickets/ws/ticket/"+id)

	first := readTicket(t, conn)
	assert.Equal(t, id, first.ID)
	assert.Equal(t, "pendiente", first.Estado)
	require.Eventually(t, func() bool { return env.broker.Subscribers(id) == 1 }, 2*time.Second, 10*time.Millisecond)

	r := call(t, env.app, http.MethodPut, "/tickets/llamar/"+id, fiber.Map{"puesto_id": "puesto-1"})
	require.Equal(t, http.StatusOK, r.status, string(r.body))

	called := readTicket(t, conn)
	assert.Equal(t, "llamado", called.Estado)
	assert.Equal(t, "Ventanilla 1", called.PuestoNombre)

	// una señal sin cambios en la vista no produce mensaje
	env.broker.Publish(id)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return env.broker.Subscribers(id) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestTicketFeed_TicketInexistente(t *testing.T) {
	env := newAPIEnv(t)
	base := serve(t, env.app)

	conn := dial(t, base+"/tickets/ws/ticket/nada")
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, map[string]any{"error": "Ticket no encontrado"}, msg)
}

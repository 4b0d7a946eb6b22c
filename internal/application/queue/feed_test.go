package queue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/pkg/clock"
	"github.com/jhoicas/turnos-api/pkg/logger"
)

type step struct {
	view *entity.TicketView
	err  error
}

// scriptedSource devuelve los pasos en orden y repite el último.
type scriptedSource struct {
	mu    sync.Mutex
	steps []step
	reads int
}

func (s *scriptedSource) GetView(ctx context.Context, id string) (*entity.TicketView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.reads
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}
	s.reads++
	st := s.steps[i]
	if st.view == nil {
		return nil, st.err
	}
	v := *st.view
	return &v, st.err
}

func snapshot(status string) *entity.TicketView {
	return &entity.TicketView{
		Ticket:      entity.Ticket{ID: "t-1", Code: "A-1", ServiceID: "svc-a", BranchID: "sede-1", Status: status, CreatedAt: start},
		ServiceName: "Caja",
		DeskName:    entity.DeskPlaceholder,
	}
}

type watchRun struct {
	msgs   chan queue.FeedMessage
	done   chan error
	cancel context.CancelFunc
}

func startWatch(feed *queue.Feed, sendErr error) *watchRun {
	ctx, cancel := context.WithCancel(context.Background())
	run := &watchRun{msgs: make(chan queue.FeedMessage, 32), done: make(chan error, 1), cancel: cancel}
	go func() {
		run.done <- feed.Watch(ctx, "t-1", func(m queue.FeedMessage) error {
			run.msgs <- m
			return sendErr
		})
	}()
	return run
}

func (w *watchRun) stop(t *testing.T) {
	t.Helper()
	w.cancel()
	select {
	case err := <-w.done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch no terminó tras cancelar")
	}
}

func drain(ch chan queue.FeedMessage) []queue.FeedMessage {
	var out []queue.FeedMessage
	for {
		select {
		case m := <-ch:
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestFeed_SoloCambios(t *testing.T) {
	a, b, c := snapshot(entity.TicketPending), snapshot(entity.TicketCalled), snapshot(entity.TicketClosed)
	src := &scriptedSource{steps: []step{{view: a}, {view: a}, {view: b}, {view: b}, {view: c}}}
	clk := clock.Fake(start)
	feed := queue.NewFeed(src, nil, clk, time.Second, logger.Nop())

	run := startWatch(feed, nil)
	for i := 0; i < 4; i++ {
		clk.WaitForPending(1)
		clk.Advance(time.Second)
	}
	clk.WaitForPending(1)
	run.stop(t)

	msgs := drain(run.msgs)
	require.Len(t, msgs, 3)
	assert.Equal(t, entity.TicketPending, msgs[0].View.Status)
	assert.Equal(t, entity.TicketCalled, msgs[1].View.Status)
	assert.Equal(t, entity.TicketClosed, msgs[2].View.Status)
	assert.Equal(t, 5, src.reads)
}

func TestFeed_NoEncontradoUnaVezYEsperaDoble(t *testing.T) {
	a := snapshot(entity.TicketPending)
	src := &scriptedSource{steps: []step{{}, {}, {view: a}, {}}}
	clk := clock.Fake(start)
	feed := queue.NewFeed(src, nil, clk, time.Second, logger.Nop())

	run := startWatch(feed, nil)

	clk.WaitForPending(1)
	next, _ := clk.NextDeadline()
	assert.Equal(t, start.Add(2*time.Second), next, "sin ticket se espera el doble")
	clk.Advance(2 * time.Second)

	clk.WaitForPending(1)
	clk.Advance(2 * time.Second)

	clk.WaitForPending(1)
	next, _ = clk.NextDeadline()
	assert.Equal(t, start.Add(5*time.Second), next, "con ticket vuelve al intervalo normal")
	clk.Advance(time.Second)

	clk.WaitForPending(1)
	run.stop(t)

	msgs := drain(run.msgs)
	require.Len(t, msgs, 3)
	assert.True(t, msgs[0].NotFound)
	assert.Equal(t, "t-1", msgs[1].View.ID)
	assert.True(t, msgs[2].NotFound)
}

func TestFeed_ErrorTransitorioNoTermina(t *testing.T) {
	src := &scriptedSource{steps: []step{{err: errors.New("conexión rechazada")}, {view: snapshot(entity.TicketPending)}}}
	clk := clock.Fake(start)
	feed := queue.NewFeed(src, nil, clk, time.Second, logger.Nop())

	run := startWatch(feed, nil)
	clk.WaitForPending(1)
	assert.Empty(t, drain(run.msgs))
	clk.Advance(time.Second)
	clk.WaitForPending(1)
	run.stop(t)

	msgs := drain(run.msgs)
	require.Len(t, msgs, 1)
	assert.Equal(t, entity.TicketPending, msgs[0].View.Status)
}

func TestFeed_FalloDeEnvioTermina(t *testing.T) {
	src := &scriptedSource{steps: []step{{view: snapshot(entity.TicketPending)}}}
	feed := queue.NewFeed(src, nil, clock.Fake(start), time.Second, logger.Nop())
	gone := errors.New("cliente desconectado")

	run := startWatch(feed, gone)

	select {
	case err := <-run.done:
		assert.ErrorIs(t, err, gone)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch debe terminar cuando send falla")
	}
	run.cancel()
}

func TestFeed_SenalDespiertaSinEsperarIntervalo(t *testing.T) {
	src := &scriptedSource{steps: []step{{view: snapshot(entity.TicketPending)}, {view: snapshot(entity.TicketCalled)}}}
	broker := queue.NewBroker()
	clk := clock.Fake(start)
	feed := queue.NewFeed(src, broker, clk, time.Hour, logger.Nop())

	run := startWatch(feed, nil)
	first := <-run.msgs
	assert.Equal(t, entity.TicketPending, first.View.Status)

	clk.WaitForPending(1)
	broker.Publish("t-1")

	select {
	case m := <-run.msgs:
		assert.Equal(t, entity.TicketCalled, m.View.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("la señal debe provocar una relectura")
	}

	run.stop(t)
	assert.Equal(t, 0, broker.Subscribers("t-1"), "la suscripción se libera al salir")
}

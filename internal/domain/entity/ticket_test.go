package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/domain"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action string
		from   string
		valid  bool
	}{
		{ActionCall, TicketPending, true},
		{ActionCall, TicketCalled, false},
		{ActionCall, TicketClosed, false},
		{ActionClose, TicketPending, true},
		{ActionClose, TicketCalled, true},
		{ActionClose, TicketClosed, false},
		{"reabrir", TicketClosed, false},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.valid, ValidTransition(tt.action, tt.from), "%s desde %s", tt.action, tt.from)
	}
}

func TestTicket_CicloCompleto(t *testing.T) {
	now := time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)
	desk := "puesto-1"
	tk := &Ticket{ID: "t-1", Status: TicketPending, CreatedAt: now}

	require.NoError(t, tk.Call(now.Add(time.Minute), &desk))
	assert.Equal(t, TicketCalled, tk.Status)
	require.NotNil(t, tk.CalledAt)
	assert.Nil(t, tk.ClosedAt)
	assert.Equal(t, &desk, tk.DeskID)

	require.NoError(t, tk.Close(now.Add(2*time.Minute)))
	assert.Equal(t, TicketClosed, tk.Status)
	require.NotNil(t, tk.ClosedAt)
	assert.True(t, tk.CalledAt.Equal(now.Add(time.Minute)))
}

func TestTicket_TimestampsUnaSolaVez(t *testing.T) {
	now := time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)
	tk := &Ticket{ID: "t-1", Status: TicketPending, CreatedAt: now}

	require.NoError(t, tk.Call(now.Add(time.Minute), nil))
	err := tk.Call(now.Add(5*time.Minute), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.True(t, tk.CalledAt.Equal(now.Add(time.Minute)))

	require.NoError(t, tk.Close(now.Add(6*time.Minute)))
	err = tk.Close(now.Add(7 * time.Minute))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, tk.ClosedAt.Equal(now.Add(6*time.Minute)))
}

func TestTicket_CerrarDesdePendiente(t *testing.T) {
	tk := &Ticket{Status: TicketPending}
	require.NoError(t, tk.Close(time.Now()))
	assert.Nil(t, tk.CalledAt)
	assert.NotNil(t, tk.ClosedAt)
}

func TestTicketView_Equal(t *testing.T) {
	now := time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)
	notes := "preferencial"
	sameNotes := "preferencial"
	a := TicketView{Ticket: Ticket{ID: "t-1", Code: "A-1", Status: TicketPending, CreatedAt: now, Notes: &notes}, ServiceName: "Caja", DeskName: DeskPlaceholder}
	b := a
	b.Notes = &sameNotes
	b.CreatedAt = now.In(time.FixedZone("COT", -5*3600))

	assert.True(t, a.Equal(b))

	called := now.Add(time.Minute)
	b.Status = TicketCalled
	b.CalledAt = &called
	assert.False(t, a.Equal(b))

	c := a
	c.DeskName = "Ventanilla 2"
	assert.False(t, a.Equal(c))
}

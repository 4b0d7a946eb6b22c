package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

func TestTicketReceipt_GeneraPDF(t *testing.T) {
	notes := "ventanilla preferencial"
	view := &entity.TicketView{
		Ticket: entity.Ticket{
			ID: "t-1", Code: "A-7", ServiceID: "svc-a", BranchID: "sede-1",
			Status: entity.TicketPending, Notes: &notes,
			CreatedAt: time.Date(2026, 5, 20, 14, 0, 0, 0, time.UTC),
		},
		ServiceName: "Caja",
		DeskName:    entity.DeskPlaceholder,
	}

	for _, url := range []string{"", "https://turnos.example.com/tickets/ws/ticket/t-1"} {
		out, err := NewReceiptGenerator().TicketReceipt(context.Background(), queue.Receipt{
			View: view, BranchName: "Centro", TrackURL: url,
		})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
	}
}

func TestTicketReceipt_SinTicket(t *testing.T) {
	_, err := NewReceiptGenerator().TicketReceipt(context.Background(), queue.Receipt{})
	assert.Error(t, err)
}

package queue

import (
	"context"
	"time"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// Receipt datos impresos en el comprobante de un ticket.
type Receipt struct {
	View       *entity.TicketView
	BranchName string
	TrackURL   string // contenido del QR
	Location   *time.Location
}

// ReceiptRenderer genera el comprobante imprimible (PDF).
type ReceiptRenderer interface {
	TicketReceipt(ctx context.Context, r Receipt) ([]byte, error)
}

// QueueExporter genera la planilla de la cola de una sede.
type QueueExporter interface {
	QueueSheet(ctx context.Context, branchName string, views []*entity.TicketView, loc *time.Location) ([]byte, error)
}

// DocumentUseCase produce comprobantes y exportaciones a partir de las vistas de tickets.
type DocumentUseCase struct {
	tickets  repository.TicketRepository
	branches repository.BranchRepository
	receipts ReceiptRenderer
	exporter QueueExporter
	loc      *time.Location
}

// NewDocumentUseCase construye el caso de uso. loc es la zona usada para imprimir horas.
func NewDocumentUseCase(
	tickets repository.TicketRepository,
	branches repository.BranchRepository,
	receipts ReceiptRenderer,
	exporter QueueExporter,
	loc *time.Location,
) *DocumentUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DocumentUseCase{tickets: tickets, branches: branches, receipts: receipts, exporter: exporter, loc: loc}
}

func (uc *DocumentUseCase) branchName(ctx context.Context, id string) (string, error) {
	b, err := uc.branches.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if b == nil {
		return id, nil
	}
	return b.Name, nil
}

// Receipt devuelve el PDF del ticket. trackURL se codifica en el QR.
func (uc *DocumentUseCase) Receipt(ctx context.Context, ticketID, trackURL string) ([]byte, error) {
	view, err := uc.tickets.GetView(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrTicketNotFound
	}
	name, err := uc.branchName(ctx, view.BranchID)
	if err != nil {
		return nil, err
	}
	return uc.receipts.TicketReceipt(ctx, Receipt{View: view, BranchName: name, TrackURL: trackURL, Location: uc.loc})
}

// Export devuelve la cola de la sede como planilla. status vacío no filtra.
func (uc *DocumentUseCase) Export(ctx context.Context, branchID, status string) ([]byte, error) {
	if status != "" && !entity.ValidStatus(status) {
		return nil, domain.Invalid("estado debe ser pendiente, llamado o cerrado")
	}
	b, err := uc.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBranchNotFound
	}
	views, err := uc.tickets.ListViewsByBranch(ctx, branchID, status)
	if err != nil {
		return nil, err
	}
	return uc.exporter.QueueSheet(ctx, b.Name, views, uc.loc)
}

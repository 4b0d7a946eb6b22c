package queue

import (
	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// ToTicketResponse convierte la vista de dominio en la forma pública.
func ToTicketResponse(v *entity.TicketView) *dto.TicketResponse {
	if v == nil {
		return nil
	}
	desk := v.DeskName
	if desk == "" {
		desk = entity.DeskPlaceholder
	}
	return &dto.TicketResponse{
		ID:             v.ID,
		Codigo:         v.Code,
		ServicioID:     v.ServiceID,
		ServicioNombre: v.ServiceName,
		Notas:          v.Notes,
		Estado:         v.Status,
		HoraCreacion:   v.CreatedAt,
		HoraLlamado:    v.CalledAt,
		HoraCierre:     v.ClosedAt,
		SedeID:         v.BranchID,
		PuestoNombre:   desk,
	}
}

func toTicketResponses(views []*entity.TicketView) []dto.TicketResponse {
	out := make([]dto.TicketResponse, 0, len(views))
	for _, v := range views {
		out = append(out, *ToTicketResponse(v))
	}
	return out
}

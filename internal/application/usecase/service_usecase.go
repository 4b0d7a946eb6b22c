package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/counter"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/pkg/sanitize"
)

const maxLetterLen = 3

var upper = cases.Upper(language.Spanish)

// ServiceUseCase gestiona servicios y su rango de numeración.
// La emisión de turnos vive en queue.TicketUseCase.
type ServiceUseCase struct {
	services repository.ServiceRepository
	branches repository.BranchRepository
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(services repository.ServiceRepository, branches repository.BranchRepository) *ServiceUseCase {
	return &ServiceUseCase{services: services, branches: branches}
}

// NormalizeLetter limpia y pasa a mayúsculas el identificador de letra.
func NormalizeLetter(s string) string {
	return upper.String(strings.TrimSpace(s))
}

// Create valida el rango y crea el servicio activo con el contador en rango_inicio.
func (uc *ServiceUseCase) Create(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if blank(in.Nombre) {
		return nil, domain.Invalid("nombre es obligatorio")
	}
	letter := NormalizeLetter(in.IdentificadorLetra)
	if letter == "" {
		return nil, domain.Invalid("identificador_letra es obligatorio")
	}
	if utf8.RuneCountInString(letter) > maxLetterLen {
		return nil, domain.Invalid("identificador_letra admite máximo 3 caracteres")
	}
	if err := counter.ValidateRange(in.RangoInicio, in.RangoFin); err != nil {
		return nil, err
	}
	branch, err := uc.branches.GetByID(ctx, in.SedeID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrBranchNotFound
	}

	svc := &entity.Service{
		ID:          newID(in.ID),
		BranchID:    branch.ID,
		Name:        sanitize.Text(in.Nombre),
		Description: sanitize.Optional(in.Descripcion),
		Letter:      letter,
		RangeStart:  in.RangoInicio,
		RangeEnd:    in.RangoFin,
		Current:     in.RangoInicio,
		Active:      true,
	}
	if err := uc.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return ToServiceResponse(svc), nil
}

// GetByID obtiene un servicio.
func (uc *ServiceUseCase) GetByID(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	svc, err := uc.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrServiceNotFound
	}
	return ToServiceResponse(svc), nil
}

// List lista servicios; branchID vacío devuelve todos.
func (uc *ServiceUseCase) List(ctx context.Context, branchID string) ([]dto.ServiceResponse, error) {
	list, err := uc.services.List(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *ToServiceResponse(s))
	}
	return out, nil
}

// SetActive activa o desactiva la emisión de turnos del servicio.
func (uc *ServiceUseCase) SetActive(ctx context.Context, id string, active bool) (*dto.ServiceResponse, error) {
	if err := uc.services.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina el servicio. Con tickets asociados devuelve domain.ErrServiceHasTickets.
func (uc *ServiceUseCase) Delete(ctx context.Context, id string) error {
	err := uc.services.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrServiceNotFound
	}
	return err
}

// ToServiceResponse convierte la entidad en la forma pública.
func ToServiceResponse(s *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:                 s.ID,
		Nombre:             s.Name,
		Descripcion:        s.Description,
		SedeID:             s.BranchID,
		IdentificadorLetra: s.Letter,
		RangoInicio:        s.RangeStart,
		RangoFin:           s.RangeEnd,
		ContadorActual:     s.Current,
		UltimaGeneracion:   s.LastIssued,
		Activo:             s.Active,
	}
}

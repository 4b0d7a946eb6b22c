package usecase

import (
	"context"
	"errors"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/pkg/clock"
	"github.com/jhoicas/turnos-api/pkg/sanitize"
)

// LocationUseCase CRUD de puestos de atención.
type LocationUseCase struct {
	locations repository.LocationRepository
	branches  repository.BranchRepository
	clock     clock.Clock
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(locations repository.LocationRepository, branches repository.BranchRepository, clk clock.Clock) *LocationUseCase {
	return &LocationUseCase{locations: locations, branches: branches, clock: clk}
}

func (uc *LocationUseCase) checkBranch(ctx context.Context, in dto.LocationRequest) error {
	if blank(in.Nombre) {
		return domain.Invalid("nombre es obligatorio")
	}
	b, err := uc.branches.GetByID(ctx, in.SedeID)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrBranchNotFound
	}
	return nil
}

// Create crea un puesto en una sede existente.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.LocationRequest) (*dto.LocationResponse, error) {
	if err := uc.checkBranch(ctx, in); err != nil {
		return nil, err
	}
	loc := &entity.Location{
		ID:          newID(in.ID),
		BranchID:    in.SedeID,
		Name:        sanitize.Text(in.Nombre),
		Description: sanitize.Optional(in.Descripcion),
	}
	if err := uc.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByID obtiene un puesto.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrLocationNotFound
	}
	return toLocationResponse(loc), nil
}

// List lista puestos; branchID vacío devuelve todos.
func (uc *LocationUseCase) List(ctx context.Context, branchID string) ([]dto.LocationResponse, error) {
	var (
		list []*entity.Location
		err  error
	)
	if branchID != "" {
		list, err = uc.locations.ListByBranch(ctx, branchID)
	} else {
		list, err = uc.locations.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

// Update reemplaza los datos del puesto.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.LocationRequest) (*dto.LocationResponse, error) {
	if err := uc.checkBranch(ctx, in); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	loc := &entity.Location{
		ID:          id,
		BranchID:    in.SedeID,
		Name:        sanitize.Text(in.Nombre),
		Description: sanitize.Optional(in.Descripcion),
		UpdatedAt:   &now,
	}
	if err := uc.locations.Update(ctx, loc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// Delete elimina el puesto; los tickets que lo tenían vuelven a "No asignado".
func (uc *LocationUseCase) Delete(ctx context.Context, id string) error {
	err := uc.locations.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrLocationNotFound
	}
	return err
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:            l.ID,
		Nombre:        l.Name,
		Descripcion:   l.Description,
		SedeID:        l.BranchID,
		Actualizacion: l.UpdatedAt,
	}
}

// FunctionUseCase CRUD de funciones y su relación con servicios.
type FunctionUseCase struct {
	functions repository.FunctionRepository
	branches  repository.BranchRepository
}

// NewFunctionUseCase construye el caso de uso.
func NewFunctionUseCase(functions repository.FunctionRepository, branches repository.BranchRepository) *FunctionUseCase {
	return &FunctionUseCase{functions: functions, branches: branches}
}

func (uc *FunctionUseCase) build(ctx context.Context, id string, in dto.FunctionRequest) (*entity.Function, error) {
	if blank(in.Nombre) {
		return nil, domain.Invalid("nombre es obligatorio")
	}
	b, err := uc.branches.GetByID(ctx, in.SedeID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBranchNotFound
	}
	seen := make(map[string]struct{}, len(in.Servicios))
	ids := make([]string, 0, len(in.Servicios))
	for _, sid := range in.Servicios {
		if _, dup := seen[sid]; dup || blank(sid) {
			continue
		}
		seen[sid] = struct{}{}
		ids = append(ids, sid)
	}
	return &entity.Function{
		ID:          id,
		BranchID:    in.SedeID,
		Name:        sanitize.Text(in.Nombre),
		Description: sanitize.Optional(in.Descripcion),
		ServiceIDs:  ids,
	}, nil
}

// Create crea la función con sus servicios.
func (uc *FunctionUseCase) Create(ctx context.Context, in dto.FunctionRequest) (*dto.FunctionResponse, error) {
	fn, err := uc.build(ctx, newID(in.ID), in)
	if err != nil {
		return nil, err
	}
	if err := uc.functions.Create(ctx, fn); err != nil {
		return nil, err
	}
	return toFunctionResponse(fn), nil
}

// GetByID obtiene una función.
func (uc *FunctionUseCase) GetByID(ctx context.Context, id string) (*dto.FunctionResponse, error) {
	fn, err := uc.functions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, domain.ErrFunctionNotFound
	}
	return toFunctionResponse(fn), nil
}

// List lista funciones con los ids de sus servicios.
func (uc *FunctionUseCase) List(ctx context.Context) ([]dto.FunctionResponse, error) {
	list, err := uc.functions.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FunctionResponse, 0, len(list))
	for _, fn := range list {
		out = append(out, *toFunctionResponse(fn))
	}
	return out, nil
}

// Update reemplaza datos y servicios de la función.
func (uc *FunctionUseCase) Update(ctx context.Context, id string, in dto.FunctionRequest) (*dto.FunctionResponse, error) {
	fn, err := uc.build(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if err := uc.functions.Update(ctx, fn); err != nil {
		if errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrServiceNotFound) {
			return nil, domain.ErrFunctionNotFound
		}
		return nil, err
	}
	return toFunctionResponse(fn), nil
}

// Delete elimina la función y sus enlaces.
func (uc *FunctionUseCase) Delete(ctx context.Context, id string) error {
	err := uc.functions.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrFunctionNotFound
	}
	return err
}

func toFunctionResponse(fn *entity.Function) *dto.FunctionResponse {
	ids := fn.ServiceIDs
	if ids == nil {
		ids = []string{}
	}
	return &dto.FunctionResponse{
		ID:          fn.ID,
		Nombre:      fn.Name,
		Descripcion: fn.Description,
		SedeID:      fn.BranchID,
		Servicios:   ids,
	}
}

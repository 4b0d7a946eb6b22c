package repository

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para puestos de atención.
type LocationRepository interface {
	Create(ctx context.Context, loc *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Location, error)
	Update(ctx context.Context, loc *entity.Location) error
	Delete(ctx context.Context, id string) error
}

// FunctionRepository persiste funciones y su relación N-M con servicios.
type FunctionRepository interface {
	// Create guarda la función y sus enlaces a ServiceIDs.
	Create(ctx context.Context, fn *entity.Function) error
	GetByID(ctx context.Context, id string) (*entity.Function, error)
	List(ctx context.Context) ([]*entity.Function, error)
	// Update reemplaza los datos y los enlaces.
	Update(ctx context.Context, fn *entity.Function) error
	// Delete borra primero los enlaces.
	Delete(ctx context.Context, id string) error
}

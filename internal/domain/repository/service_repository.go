package repository

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// ServiceRepository define el puerto de persistencia para servicios y su contador.
type ServiceRepository interface {
	Create(ctx context.Context, svc *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	// GetForUpdate lee el servicio bloqueándolo hasta el fin de la transacción.
	// Solo tiene sentido dentro de TxRunner.
	GetForUpdate(ctx context.Context, id string) (*entity.Service, error)
	// List devuelve todos los servicios, o los de una sede si branchID no está vacío.
	List(ctx context.Context, branchID string) ([]*entity.Service, error)
	// SaveCounter persiste contador_actual y ultima_generacion.
	SaveCounter(ctx context.Context, svc *entity.Service) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

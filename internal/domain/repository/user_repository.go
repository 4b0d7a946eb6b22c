package repository

import (
	"context"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios de staff.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	ListByBranch(ctx context.Context, branchID string) ([]*entity.User, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
}

// ClientRepository define el puerto de persistencia para clientes de la app móvil.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
}

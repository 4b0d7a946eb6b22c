package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/pkg/clock"
	"github.com/jhoicas/turnos-api/pkg/sanitize"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo  repository.CompanyRepository
	clock clock.Clock
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, clk clock.Clock) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, clock: clk}
}

// Create crea una empresa con contadores en cero. Devuelve domain.ErrDuplicate si el id ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if blank(in.Nombre) {
		return nil, domain.Invalid("nombre es obligatorio")
	}
	company := &entity.Company{
		ID:          newID(in.ID),
		Name:        sanitize.Text(in.Nombre),
		Description: sanitize.Optional(in.Descripcion),
		Address:     sanitize.Optional(in.Direccion),
		CreatedAt:   uc.clock.Now(),
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return toCompanyResponse(company), nil
}

// List lista todas las empresas.
func (uc *CompanyUseCase) List(ctx context.Context) ([]dto.CompanyResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompanyResponse(c))
	}
	return items, nil
}

// Update aplica solo los campos presentes.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	if in.Nombre != nil {
		if blank(*in.Nombre) {
			return nil, domain.Invalid("nombre no puede estar vacío")
		}
		company.Name = sanitize.Text(*in.Nombre)
	}
	if in.Descripcion != nil {
		company.Description = sanitize.Optional(in.Descripcion)
	}
	if in.Direccion != nil {
		company.Address = sanitize.Optional(in.Direccion)
	}
	if in.CantidadSedes != nil {
		company.BranchCount = max(0, *in.CantidadSedes)
	}
	if in.CantidadUsuarios != nil {
		company.UserCount = max(0, *in.CantidadUsuarios)
	}
	now := uc.clock.Now()
	company.UpdatedAt = &now
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Delete elimina la empresa.
func (uc *CompanyUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCompanyNotFound
		}
		return err
	}
	return nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:               c.ID,
		Nombre:           c.Name,
		Descripcion:      c.Description,
		Direccion:        c.Address,
		CantidadSedes:    c.BranchCount,
		CantidadUsuarios: c.UserCount,
		FechaCreacion:    c.CreatedAt,
		Actualizacion:    c.UpdatedAt,
	}
}

// BranchUseCase gestiona sedes y mantiene cantidad_sedes de la empresa.
type BranchUseCase struct {
	tx        CatalogTxRunner
	branches  repository.BranchRepository
	companies repository.CompanyRepository
	clock     clock.Clock
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(tx CatalogTxRunner, branches repository.BranchRepository, companies repository.CompanyRepository, clk clock.Clock) *BranchUseCase {
	return &BranchUseCase{tx: tx, branches: branches, companies: companies, clock: clk}
}

func (uc *BranchUseCase) validate(in dto.BranchRequest) error {
	if blank(in.Nombre) {
		return domain.Invalid("nombre es obligatorio")
	}
	if blank(in.EmpresaID) {
		return domain.Invalid("empresa_id es obligatorio")
	}
	return nil
}

// Create crea la sede y suma uno a cantidad_sedes en la misma transacción.
func (uc *BranchUseCase) Create(ctx context.Context, in dto.BranchRequest) (*dto.BranchResponse, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	branch := &entity.Branch{
		ID:        newID(in.ID),
		CompanyID: strings.TrimSpace(in.EmpresaID),
		Name:      sanitize.Text(in.Nombre),
		Address:   sanitize.Optional(in.Direccion),
		City:      sanitize.Optional(in.Ciudad),
		Phone:     sanitize.Optional(in.Telefono),
	}
	err := uc.tx.RunCatalog(ctx, func(companies repository.CompanyRepository, branches repository.BranchRepository, _ repository.UserRepository) error {
		company, err := companies.GetByID(ctx, branch.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrCompanyNotFound
		}
		if err := branches.Create(ctx, branch); err != nil {
			return err
		}
		return companies.AdjustCounts(ctx, branch.CompanyID, 1, 0)
	})
	if err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// GetByID obtiene una sede.
func (uc *BranchUseCase) GetByID(ctx context.Context, id string) (*dto.BranchResponse, error) {
	b, err := uc.branches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrBranchNotFound
	}
	return toBranchResponse(b), nil
}

// List lista todas las sedes, o las de una empresa si companyID no está vacío.
func (uc *BranchUseCase) List(ctx context.Context, companyID string) ([]dto.BranchResponse, error) {
	var (
		list []*entity.Branch
		err  error
	)
	if companyID != "" {
		list, err = uc.branches.ListByCompany(ctx, companyID)
	} else {
		list, err = uc.branches.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBranchResponse(b))
	}
	return out, nil
}

// Update reemplaza los datos de la sede. Si cambia de empresa se mueven los contadores.
func (uc *BranchUseCase) Update(ctx context.Context, id string, in dto.BranchRequest) (*dto.BranchResponse, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	var out *entity.Branch
	err := uc.tx.RunCatalog(ctx, func(companies repository.CompanyRepository, branches repository.BranchRepository, _ repository.UserRepository) error {
		b, err := branches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrBranchNotFound
		}
		newCompany := strings.TrimSpace(in.EmpresaID)
		if newCompany != b.CompanyID {
			target, err := companies.GetByID(ctx, newCompany)
			if err != nil {
				return err
			}
			if target == nil {
				return domain.ErrCompanyNotFound
			}
			if err := companies.AdjustCounts(ctx, b.CompanyID, -1, 0); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if err := companies.AdjustCounts(ctx, newCompany, 1, 0); err != nil {
				return err
			}
		}
		now := uc.clock.Now()
		b.CompanyID = newCompany
		b.Name = sanitize.Text(in.Nombre)
		b.Address = sanitize.Optional(in.Direccion)
		b.City = sanitize.Optional(in.Ciudad)
		b.Phone = sanitize.Optional(in.Telefono)
		b.UpdatedAt = &now
		out = b
		return branches.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return toBranchResponse(out), nil
}

// Delete elimina la sede y resta uno a cantidad_sedes.
func (uc *BranchUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.RunCatalog(ctx, func(companies repository.CompanyRepository, branches repository.BranchRepository, _ repository.UserRepository) error {
		b, err := branches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrBranchNotFound
		}
		if err := branches.Delete(ctx, id); err != nil {
			return err
		}
		if err := companies.AdjustCounts(ctx, b.CompanyID, -1, 0); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	})
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:            b.ID,
		Nombre:        b.Name,
		Direccion:     b.Address,
		Ciudad:        b.City,
		Telefono:      b.Phone,
		EmpresaID:     b.CompanyID,
		Actualizacion: b.UpdatedAt,
	}
}

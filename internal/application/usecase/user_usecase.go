package usecase

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/pkg/clock"
	"github.com/jhoicas/turnos-api/pkg/sanitize"
)

const minPasswordLen = 6

// UserUseCase aplica reglas de negocio para usuarios de staff y mantiene cantidad_usuarios.
type UserUseCase struct {
	tx    CatalogTxRunner
	repo  repository.UserRepository
	clock clock.Clock
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(tx CatalogTxRunner, repo repository.UserRepository, clk clock.Clock) *UserUseCase {
	return &UserUseCase{tx: tx, repo: repo, clock: clk}
}

func validProfile(p string) bool {
	switch p {
	case entity.ProfileAdmin, entity.ProfileOperator, entity.ProfileSupervisor:
		return true
	}
	return false
}

func validUserStatus(s string) bool {
	return s == entity.UserActive || s == entity.UserInactive
}

// HashPassword genera el hash bcrypt de una contraseña.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", domain.Invalid("password debe tener al menos 6 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// resolveScope valida la sede y deriva la empresa de ella cuando no viene explícita.
func resolveScope(ctx context.Context, companies repository.CompanyRepository, branches repository.BranchRepository, companyID, branchID *string) (*string, error) {
	if branchID != nil {
		b, err := branches.GetByID(ctx, *branchID)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, domain.ErrBranchNotFound
		}
		if companyID == nil {
			companyID = &b.CompanyID
		} else if *companyID != b.CompanyID {
			return nil, domain.Invalid("la sede no pertenece a la empresa indicada")
		}
	}
	if companyID != nil {
		c, err := companies.GetByID(ctx, *companyID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.ErrCompanyNotFound
		}
	}
	return companyID, nil
}

func nonBlank(p *string) *string {
	if p == nil || blank(*p) {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// Create hashea la contraseña y persiste el usuario. Suma uno a cantidad_usuarios de su empresa.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.Invalid("username es obligatorio")
	}
	if blank(in.Nombre) {
		return nil, domain.Invalid("nombre es obligatorio")
	}
	profile := strings.TrimSpace(in.Perfil)
	if profile == "" {
		profile = entity.ProfileOperator
	}
	if !validProfile(profile) {
		return nil, domain.Invalid("perfil inválido")
	}
	status := strings.TrimSpace(in.Estado)
	if status == "" {
		status = entity.UserActive
	}
	if !validUserStatus(status) {
		return nil, domain.Invalid("estado inválido")
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           newID(in.ID),
		FirstName:    sanitize.Text(in.Nombre),
		LastName:     sanitize.Optional(in.Apellido),
		Username:     username,
		PasswordHash: hash,
		Profile:      profile,
		Status:       status,
		FunctionID:   nonBlank(in.FuncionID),
		BranchID:     nonBlank(in.SedeID),
	}
	err = uc.tx.RunCatalog(ctx, func(companies repository.CompanyRepository, branches repository.BranchRepository, users repository.UserRepository) error {
		existing, err := users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrUsernameTaken
		}
		user.CompanyID, err = resolveScope(ctx, companies, branches, nonBlank(in.EmpresaID), user.BranchID)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrUsernameTaken
			}
			return err
		}
		if user.CompanyID != nil {
			return companies.AdjustCounts(ctx, *user.CompanyID, 0, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// List lista usuarios, filtrando por sede o empresa si se indican.
func (uc *UserUseCase) List(ctx context.Context, branchID, companyID string) ([]dto.UserResponse, error) {
	var (
		list []*entity.User
		err  error
	)
	switch {
	case branchID != "":
		list, err = uc.repo.ListByBranch(ctx, branchID)
	case companyID != "":
		list, err = uc.repo.ListByCompany(ctx, companyID)
	default:
		list, err = uc.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// Update aplica solo los campos presentes. Si cambia la sede a otra empresa se mueven los contadores.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var out *entity.User
	err := uc.tx.RunCatalog(ctx, func(companies repository.CompanyRepository, branches repository.BranchRepository, users repository.UserRepository) error {
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		if in.Nombre != nil {
			if blank(*in.Nombre) {
				return domain.Invalid("nombre no puede estar vacío")
			}
			u.FirstName = sanitize.Text(*in.Nombre)
		}
		if in.Apellido != nil {
			u.LastName = sanitize.Optional(in.Apellido)
		}
		if in.Username != nil {
			name := strings.TrimSpace(*in.Username)
			if name == "" {
				return domain.Invalid("username no puede estar vacío")
			}
			if name != u.Username {
				other, err := users.GetByUsername(ctx, name)
				if err != nil {
					return err
				}
				if other != nil {
					return domain.ErrUsernameTaken
				}
				u.Username = name
			}
		}
		if in.Password != nil && *in.Password != "" {
			hash, err := HashPassword(*in.Password)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
		}
		if in.Perfil != nil {
			if !validProfile(*in.Perfil) {
				return domain.Invalid("perfil inválido")
			}
			u.Profile = *in.Perfil
		}
		if in.Estado != nil {
			if !validUserStatus(*in.Estado) {
				return domain.Invalid("estado inválido")
			}
			u.Status = *in.Estado
		}
		if in.FuncionID != nil {
			u.FunctionID = nonBlank(in.FuncionID)
		}
		if in.SedeID != nil {
			branchID := nonBlank(in.SedeID)
			companyID, err := resolveScope(ctx, companies, branches, nil, branchID)
			if err != nil {
				return err
			}
			if branchID == nil {
				companyID = u.CompanyID
			}
			if err := moveUserCount(ctx, companies, u.CompanyID, companyID); err != nil {
				return err
			}
			u.BranchID = branchID
			u.CompanyID = companyID
		}
		now := uc.clock.Now()
		u.UpdatedAt = &now
		if err := users.Update(ctx, u); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrUsernameTaken
			}
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(out), nil
}

func moveUserCount(ctx context.Context, companies repository.CompanyRepository, from, to *string) error {
	if from != nil && to != nil && *from == *to {
		return nil
	}
	if from != nil {
		if err := companies.AdjustCounts(ctx, *from, 0, -1); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	if to != nil {
		return companies.AdjustCounts(ctx, *to, 0, 1)
	}
	return nil
}

// Delete elimina el usuario y resta uno a cantidad_usuarios de su empresa.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.RunCatalog(ctx, func(companies repository.CompanyRepository, _ repository.BranchRepository, users repository.UserRepository) error {
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		if err := users.Delete(ctx, id); err != nil {
			return err
		}
		return moveUserCount(ctx, companies, u.CompanyID, nil)
	})
}

// ToUserResponse convierte la entidad sin exponer el hash.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:            u.ID,
		Nombre:        u.FirstName,
		Apellido:      u.LastName,
		Username:      u.Username,
		Perfil:        u.Profile,
		Estado:        u.Status,
		FuncionID:     u.FunctionID,
		EmpresaID:     u.CompanyID,
		SedeID:        u.BranchID,
		Actualizacion: u.UpdatedAt,
	}
}

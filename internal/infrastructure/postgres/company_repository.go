package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	conn
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier, opt Options) *CompanyRepo {
	return &CompanyRepo{conn: newConn(q, opt)}
}

const companyColumns = `id, nombre, descripcion, direccion, cantidad_sedes, cantidad_usuarios, fecha_creacion, ultima_actualizacion`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Address, &c.BranchCount, &c.UserCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	_, err := r.exec(ctx, "insert empresa", `
		INSERT INTO empresas (`+companyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Description, c.Address, c.BranchCount, c.UserCount, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// GetByID obtiene una empresa por ID; (nil, nil) si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.read(ctx, "get empresa", func(ctx context.Context, q Querier) error {
		c, err := scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM empresas WHERE id = $1`, id))
		if isNoRows(err) {
			return nil
		}
		out = c
		return err
	})
	return out, err
}

// List lista las empresas ordenadas por nombre.
func (r *CompanyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.read(ctx, "list empresas", func(ctx context.Context, q Querier) error {
		rows, err := q.Query(ctx, `SELECT `+companyColumns+` FROM empresas ORDER BY nombre, id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = make([]*entity.Company, 0)
		for rows.Next() {
			c, err := scanCompany(rows)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	return out, err
}

// Update reemplaza los datos de la empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	tag, err := r.exec(ctx, "update empresa", `
		UPDATE empresas
		SET nombre = $2, descripcion = $3, direccion = $4,
			cantidad_sedes = $5, cantidad_usuarios = $6, ultima_actualizacion = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Description, c.Address, c.BranchCount, c.UserCount, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la empresa.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, "delete empresa", `DELETE FROM empresas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustCounts suma los deltas a cantidad_sedes y cantidad_usuarios sin bajar de cero.
func (r *CompanyRepo) AdjustCounts(ctx context.Context, id string, branches, users int) error {
	tag, err := r.exec(ctx, "ajustar contadores empresa", `
		UPDATE empresas
		SET cantidad_sedes = GREATEST(0, cantidad_sedes + $2),
			cantidad_usuarios = GREATEST(0, cantidad_usuarios + $3)
		WHERE id = $1`, id, branches, users)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo sedes sobre PostgreSQL.
type BranchRepo struct {
	conn
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier, opt Options) *BranchRepo {
	return &BranchRepo{conn: newConn(q, opt)}
}

const branchColumns = `id, empresa_id, nombre, direccion, ciudad, telefono, ultima_actualizacion`

func scanBranch(row pgx.Row) (*entity.Branch, error) {
	var b entity.Branch
	if err := row.Scan(&b.ID, &b.CompanyID, &b.Name, &b.Address, &b.City, &b.Phone, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	_, err := r.exec(ctx, "insert sede", `
		INSERT INTO sedes (`+branchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.CompanyID, b.Name, b.Address, b.City, b.Phone, b.UpdatedAt,
	)
	return err
}

func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	var out *entity.Branch
	err := r.read(ctx, "get sede", func(ctx context.Context, q Querier) error {
		b, err := scanBranch(q.QueryRow(ctx, `SELECT `+branchColumns+` FROM sedes WHERE id = $1`, id))
		if isNoRows(err) {
			return nil
		}
		out = b
		return err
	})
	return out, err
}

func (r *BranchRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Branch, error) {
	var out []*entity.Branch
	err := r.read(ctx, "list sedes", func(ctx context.Context, q Querier) error {
		rows, err := q.Query(ctx, `SELECT `+branchColumns+` FROM sedes `+where+` ORDER BY nombre, id`, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = make([]*entity.Branch, 0)
		for rows.Next() {
			b, err := scanBranch(rows)
			if err != nil {
				return err
			}
			out = append(out, b)
		}
		return rows.Err()
	})
	return out, err
}

func (r *BranchRepo) List(ctx context.Context) ([]*entity.Branch, error) {
	return r.list(ctx, "")
}

func (r *BranchRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Branch, error) {
	return r.list(ctx, "WHERE empresa_id = $1", companyID)
}

func (r *BranchRepo) Update(ctx context.Context, b *entity.Branch) error {
	tag, err := r.exec(ctx, "update sede", `
		UPDATE sedes
		SET empresa_id = $2, nombre = $3, direccion = $4, ciudad = $5, telefono = $6, ultima_actualizacion = $7
		WHERE id = $1`,
		b.ID, b.CompanyID, b.Name, b.Address, b.City, b.Phone, b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BranchRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, "delete sede", `DELETE FROM sedes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

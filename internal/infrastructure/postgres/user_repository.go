package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// Asegura que UserRepo implementa repository.UserRepository.
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	conn
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier, opt Options) *UserRepo {
	return &UserRepo{conn: newConn(q, opt)}
}

const userColumns = `id, nombre, apellido, username, password, perfil, estado,
	funcion_id, empresa_id, sede_id, ultima_actualizacion`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.PasswordHash, &u.Profile, &u.Status,
		&u.FunctionID, &u.CompanyID, &u.BranchID, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un usuario. Username repetido devuelve domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.exec(ctx, "insert usuario", `
		INSERT INTO usuarios (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.FirstName, u.LastName, u.Username, u.PasswordHash, u.Profile, u.Status,
		u.FunctionID, u.CompanyID, u.BranchID, u.UpdatedAt,
	)
	return err
}

func (r *UserRepo) getOne(ctx context.Context, op, where, arg string) (*entity.User, error) {
	var out *entity.User
	err := r.read(ctx, op, func(ctx context.Context, q Querier) error {
		u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE `+where, arg))
		if isNoRows(err) {
			return nil
		}
		out = u
		return err
	})
	return out, err
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "get usuario", "id = $1", id)
}

// GetByUsername obtiene un usuario por username (para login).
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, "get usuario por username", "username = $1", username)
}

func (r *UserRepo) list(ctx context.Context, where string, args ...any) ([]*entity.User, error) {
	var out []*entity.User
	err := r.read(ctx, "list usuarios", func(ctx context.Context, q Querier) error {
		rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM usuarios `+where+` ORDER BY username`, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = make([]*entity.User, 0)
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	return out, err
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, "")
}

func (r *UserRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.User, error) {
	return r.list(ctx, "WHERE sede_id = $1", branchID)
}

func (r *UserRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error) {
	return r.list(ctx, "WHERE empresa_id = $1", companyID)
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	tag, err := r.exec(ctx, "update usuario", `
		UPDATE usuarios
		SET nombre = $2, apellido = $3, username = $4, password = $5, perfil = $6, estado = $7,
			funcion_id = $8, empresa_id = $9, sede_id = $10, ultima_actualizacion = $11
		WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.Username, u.PasswordHash, u.Profile, u.Status,
		u.FunctionID, u.CompanyID, u.BranchID, u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, "delete usuario", `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes de la app móvil.
type ClientRepo struct {
	conn
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier, opt Options) *ClientRepo {
	return &ClientRepo{conn: newConn(q, opt)}
}

const clientColumns = `id, nombre, email, hashed_password, fecha_creacion`

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.exec(ctx, "insert cliente", `
		INSERT INTO clientes (`+clientColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Email, c.PasswordHash, c.CreatedAt)
	return err
}

func (r *ClientRepo) getOne(ctx context.Context, op, where, arg string) (*entity.Client, error) {
	var out *entity.Client
	err := r.read(ctx, op, func(ctx context.Context, q Querier) error {
		var c entity.Client
		err := q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clientes WHERE `+where, arg).
			Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.CreatedAt)
		if isNoRows(err) {
			return nil
		}
		if err != nil {
			return err
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.getOne(ctx, "get cliente", "id = $1", id)
}

// GetByEmail busca sin distinguir mayúsculas.
func (r *ClientRepo) GetByEmail(ctx context.Context, email string) (*entity.Client, error) {
	return r.getOne(ctx, "get cliente por email", "lower(email) = lower($1)", email)
}

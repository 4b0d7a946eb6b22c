package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo puestos de atención sobre PostgreSQL.
type LocationRepo struct {
	conn
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier, opt Options) *LocationRepo {
	return &LocationRepo{conn: newConn(q, opt)}
}

const locationColumns = `id, sede_id, nombre, descripcion, ultima_actualizacion`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	if err := row.Scan(&l.ID, &l.BranchID, &l.Name, &l.Description, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.exec(ctx, "insert locacion", `
		INSERT INTO locaciones (`+locationColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.BranchID, l.Name, l.Description, l.UpdatedAt)
	return err
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.read(ctx, "get locacion", func(ctx context.Context, q Querier) error {
		l, err := scanLocation(q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locaciones WHERE id = $1`, id))
		if isNoRows(err) {
			return nil
		}
		out = l
		return err
	})
	return out, err
}

func (r *LocationRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.read(ctx, "list locaciones", func(ctx context.Context, q Querier) error {
		rows, err := q.Query(ctx, `SELECT `+locationColumns+` FROM locaciones `+where+` ORDER BY nombre, id`, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = make([]*entity.Location, 0)
		for rows.Next() {
			l, err := scanLocation(rows)
			if err != nil {
				return err
			}
			out = append(out, l)
		}
		return rows.Err()
	})
	return out, err
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	return r.list(ctx, "")
}

func (r *LocationRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Location, error) {
	return r.list(ctx, "WHERE sede_id = $1", branchID)
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	tag, err := r.exec(ctx, "update locacion", `
		UPDATE locaciones SET sede_id = $2, nombre = $3, descripcion = $4, ultima_actualizacion = $5
		WHERE id = $1`, l.ID, l.BranchID, l.Name, l.Description, l.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el puesto; tickets.puesto_id queda en NULL por la FK.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, "delete locacion", `DELETE FROM locaciones WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ repository.FunctionRepository = (*FunctionRepo)(nil)

// FunctionRepo funciones y su tabla intermedia funcion_servicio.
// Las escrituras de la relación requieren varias sentencias, así que
// conviene construirlo sobre un pool: abre su propia transacción.
type FunctionRepo struct {
	conn
	begin func(ctx context.Context) (pgx.Tx, error)
}

// NewFunctionRepository construye el adaptador sobre un pool.
func NewFunctionRepository(db interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}, opt Options) *FunctionRepo {
	return &FunctionRepo{conn: newConn(db, opt), begin: db.Begin}
}

func (r *FunctionRepo) withTx(ctx context.Context, fn func(c conn) error) error {
	tx, err := r.begin(ctx)
	if err != nil {
		return classify("begin funcion", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(r.inTx(tx)); err != nil {
		return err
	}
	return classify("commit funcion", tx.Commit(ctx))
}

func linkServices(ctx context.Context, c conn, fnID string, serviceIDs []string) error {
	if _, err := c.exec(ctx, "limpiar funcion_servicio", `DELETE FROM funcion_servicio WHERE funcion_id = $1`, fnID); err != nil {
		return err
	}
	for _, sid := range serviceIDs {
		_, err := c.exec(ctx, "insert funcion_servicio", `
			INSERT INTO funcion_servicio (funcion_id, servicio_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, fnID, sid)
		if err != nil {
			if isFKViolation(err) {
				return domain.ErrServiceNotFound
			}
			return err
		}
	}
	return nil
}

// Create inserta la función y sus enlaces; un servicio inexistente devuelve domain.ErrServiceNotFound.
func (r *FunctionRepo) Create(ctx context.Context, f *entity.Function) error {
	return r.withTx(ctx, func(c conn) error {
		_, err := c.exec(ctx, "insert funcion", `
			INSERT INTO funciones (id, sede_id, nombre, descripcion) VALUES ($1, $2, $3, $4)`,
			f.ID, f.BranchID, f.Name, f.Description)
		if err != nil {
			return err
		}
		return linkServices(ctx, c, f.ID, f.ServiceIDs)
	})
}

const functionSelect = `
	SELECT f.id, f.sede_id, f.nombre, f.descripcion,
		COALESCE(array_agg(fs.servicio_id ORDER BY fs.servicio_id) FILTER (WHERE fs.servicio_id IS NOT NULL), '{}')
	FROM funciones f
	LEFT JOIN funcion_servicio fs ON fs.funcion_id = f.id`

func scanFunction(row pgx.Row) (*entity.Function, error) {
	var f entity.Function
	if err := row.Scan(&f.ID, &f.BranchID, &f.Name, &f.Description, &f.ServiceIDs); err != nil {
		return nil, err
	}
	if f.ServiceIDs == nil {
		f.ServiceIDs = []string{}
	}
	return &f, nil
}

func (r *FunctionRepo) GetByID(ctx context.Context, id string) (*entity.Function, error) {
	var out *entity.Function
	err := r.read(ctx, "get funcion", func(ctx context.Context, q Querier) error {
		f, err := scanFunction(q.QueryRow(ctx, functionSelect+` WHERE f.id = $1 GROUP BY f.id`, id))
		if isNoRows(err) {
			return nil
		}
		out = f
		return err
	})
	return out, err
}

func (r *FunctionRepo) List(ctx context.Context) ([]*entity.Function, error) {
	var out []*entity.Function
	err := r.read(ctx, "list funciones", func(ctx context.Context, q Querier) error {
		rows, err := q.Query(ctx, functionSelect+` GROUP BY f.id ORDER BY f.nombre, f.id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = make([]*entity.Function, 0)
		for rows.Next() {
			f, err := scanFunction(rows)
			if err != nil {
				return err
			}
			out = append(out, f)
		}
		return rows.Err()
	})
	return out, err
}

// Update reemplaza datos y enlaces de la función.
func (r *FunctionRepo) Update(ctx context.Context, f *entity.Function) error {
	return r.withTx(ctx, func(c conn) error {
		tag, err := c.exec(ctx, "update funcion", `
			UPDATE funciones SET sede_id = $2, nombre = $3, descripcion = $4 WHERE id = $1`,
			f.ID, f.BranchID, f.Name, f.Description)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return linkServices(ctx, c, f.ID, f.ServiceIDs)
	})
}

// Delete elimina la función; los enlaces caen por ON DELETE CASCADE.
func (r *FunctionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, "delete funcion", `DELETE FROM funciones WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

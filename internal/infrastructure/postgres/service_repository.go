package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo servicios y su contador sobre PostgreSQL (usable con pool o tx).
type ServiceRepo struct {
	conn
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier, opt Options) *ServiceRepo {
	return &ServiceRepo{conn: newConn(q, opt)}
}

const serviceColumns = `id, sede_id, nombre, descripcion, identificador_letra, rango_inicio, rango_fin,
	contador_actual, ultima_generacion, activo`

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	err := row.Scan(&s.ID, &s.BranchID, &s.Name, &s.Description, &s.Letter, &s.RangeStart, &s.RangeEnd,
		&s.Current, &s.LastIssued, &s.Active)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	_, err := r.exec(ctx, "insert servicio", `
		INSERT INTO servicios (`+serviceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.BranchID, s.Name, s.Description, s.Letter, s.RangeStart, s.RangeEnd,
		s.Current, s.LastIssued, s.Active,
	)
	return err
}

func (r *ServiceRepo) get(ctx context.Context, op, query, id string) (*entity.Service, error) {
	var out *entity.Service
	err := r.read(ctx, op, func(ctx context.Context, q Querier) error {
		s, err := scanService(q.QueryRow(ctx, query, id))
		if isNoRows(err) {
			return nil
		}
		out = s
		return err
	})
	return out, err
}

// GetByID obtiene un servicio; (nil, nil) si no existe.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	return r.get(ctx, "get servicio", `SELECT `+serviceColumns+` FROM servicios WHERE id = $1`, id)
}

// GetForUpdate obtiene el servicio y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *ServiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Service, error) {
	return r.get(ctx, "get servicio for update", `SELECT `+serviceColumns+` FROM servicios WHERE id = $1 FOR UPDATE`, id)
}

// List lista servicios, de una sede si branchID no está vacío.
func (r *ServiceRepo) List(ctx context.Context, branchID string) ([]*entity.Service, error) {
	var out []*entity.Service
	err := r.read(ctx, "list servicios", func(ctx context.Context, q Querier) error {
		rows, err := q.Query(ctx, `
			SELECT `+serviceColumns+` FROM servicios
			WHERE $1 = '' OR sede_id = $1
			ORDER BY nombre, id`, branchID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = make([]*entity.Service, 0)
		for rows.Next() {
			s, err := scanService(rows)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	return out, err
}

// SaveCounter persiste contador_actual y ultima_generacion.
func (r *ServiceRepo) SaveCounter(ctx context.Context, s *entity.Service) error {
	tag, err := r.exec(ctx, "guardar contador", `
		UPDATE servicios SET contador_actual = $2, ultima_generacion = $3 WHERE id = $1`,
		s.ID, s.Current, s.LastIssued)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServiceRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.exec(ctx, "activar servicio", `UPDATE servicios SET activo = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el servicio; con tickets asociados devuelve domain.ErrServiceHasTickets.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, "delete servicio", `DELETE FROM servicios WHERE id = $1`, id)
	if err != nil {
		if isFKViolation(err) {
			return domain.ErrServiceHasTickets
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

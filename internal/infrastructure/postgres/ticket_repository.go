package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

// TicketRepo tickets sobre PostgreSQL (usable con pool o tx).
type TicketRepo struct {
	conn
}

// NewTicketRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTicketRepository(q Querier, opt Options) *TicketRepo {
	return &TicketRepo{conn: newConn(q, opt)}
}

const ticketColumns = `t.id, t.codigo, t.servicio_id, t.sede_id, t.notas, t.estado,
	t.hora_creacion, t.hora_llamado, t.hora_cierre, t.puesto_id, t.request_id`

const viewSelect = `SELECT ` + ticketColumns + `, COALESCE(s.nombre, ''), l.nombre
	FROM tickets t
	LEFT JOIN servicios s ON s.id = t.servicio_id
	LEFT JOIN locaciones l ON l.id = t.puesto_id`

func ticketDest(t *entity.Ticket) []any {
	return []any{&t.ID, &t.Code, &t.ServiceID, &t.BranchID, &t.Notes, &t.Status,
		&t.CreatedAt, &t.CalledAt, &t.ClosedAt, &t.DeskID, &t.RequestID}
}

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	if err := row.Scan(ticketDest(&t)...); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanView(row pgx.Row) (*entity.TicketView, error) {
	var (
		v    entity.TicketView
		desk *string
	)
	dest := append(ticketDest(&v.Ticket), &v.ServiceName, &desk)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	v.DeskName = entity.DeskPlaceholder
	if desk != nil {
		v.DeskName = *desk
	}
	return &v, nil
}

// Create inserta el ticket. Un request_id repetido devuelve domain.ErrDuplicate.
func (r *TicketRepo) Create(ctx context.Context, t *entity.Ticket) error {
	_, err := r.exec(ctx, "insert ticket", `
		INSERT INTO tickets (id, codigo, servicio_id, sede_id, notas, estado,
			hora_creacion, hora_llamado, hora_cierre, puesto_id, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.Code, t.ServiceID, t.BranchID, t.Notes, t.Status,
		t.CreatedAt, t.CalledAt, t.ClosedAt, t.DeskID, t.RequestID,
	)
	return err
}

func (r *TicketRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Ticket, error) {
	var out *entity.Ticket
	err := r.read(ctx, op, func(ctx context.Context, q Querier) error {
		t, err := scanTicket(q.QueryRow(ctx, query, arg))
		if isNoRows(err) {
			return nil
		}
		out = t
		return err
	})
	return out, err
}

func (r *TicketRepo) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	return r.getOne(ctx, "get ticket", `SELECT `+ticketColumns+` FROM tickets t WHERE t.id = $1`, id)
}

// GetForUpdate bloquea la fila del ticket hasta el fin de la transacción.
func (r *TicketRepo) GetForUpdate(ctx context.Context, id string) (*entity.Ticket, error) {
	return r.getOne(ctx, "get ticket for update", `SELECT `+ticketColumns+` FROM tickets t WHERE t.id = $1 FOR UPDATE`, id)
}

func (r *TicketRepo) GetByRequestID(ctx context.Context, requestID string) (*entity.Ticket, error) {
	return r.getOne(ctx, "get ticket por request_id", `SELECT `+ticketColumns+` FROM tickets t WHERE t.request_id = $1`, requestID)
}

// GetView devuelve el ticket con nombre de servicio y de puesto resueltos.
func (r *TicketRepo) GetView(ctx context.Context, id string) (*entity.TicketView, error) {
	var out *entity.TicketView
	err := r.read(ctx, "get ticket view", func(ctx context.Context, q Querier) error {
		v, err := scanView(q.QueryRow(ctx, viewSelect+` WHERE t.id = $1`, id))
		if isNoRows(err) {
			return nil
		}
		out = v
		return err
	})
	return out, err
}

// ListViewsByBranch lista en orden de llegada; seq desempata tickets con la misma hora.
// status vacío no filtra.
func (r *TicketRepo) ListViewsByBranch(ctx context.Context, branchID, status string) ([]*entity.TicketView, error) {
	var out []*entity.TicketView
	err := r.read(ctx, "list tickets sede", func(ctx context.Context, q Querier) error {
		rows, err := q.Query(ctx, viewSelect+`
			WHERE t.sede_id = $1 AND ($2 = '' OR t.estado = $2)
			ORDER BY t.hora_creacion, t.seq`, branchID, status)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = make([]*entity.TicketView, 0)
		for rows.Next() {
			v, err := scanView(rows)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	return out, err
}

// Update persiste estado, marcas de tiempo y puesto.
func (r *TicketRepo) Update(ctx context.Context, t *entity.Ticket) error {
	tag, err := r.exec(ctx, "update ticket", `
		UPDATE tickets SET estado = $2, hora_llamado = $3, hora_cierre = $4, puesto_id = $5
		WHERE id = $1`,
		t.ID, t.Status, t.CalledAt, t.ClosedAt, t.DeskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, "delete ticket", `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/turnos-api/internal/domain"
)

// Querier es la parte común de *pgxpool.Pool y pgx.Tx que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Options límites aplicados a cada operación contra la base.
type Options struct {
	OpTimeout   time.Duration
	ReadRetries int
}

// conn agrupa el Querier con las opciones; lo embeben todos los repositorios.
type conn struct {
	q   Querier
	opt Options
}

func newConn(q Querier, opt Options) conn {
	return conn{q: q, opt: opt}
}

// inTx devuelve la misma conexión sin reintentos: una tx abortada no admite relecturas.
func (c conn) inTx(tx pgx.Tx) conn {
	return conn{q: tx, opt: Options{OpTimeout: c.opt.OpTimeout}}
}

func (c conn) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opt.OpTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.opt.OpTimeout)
}

// exec ejecuta una escritura con el límite de tiempo configurado.
func (c conn) exec(ctx context.Context, op, sql string, args ...any) (pgconn.CommandTag, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	tag, err := c.q.Exec(ctx, sql, args...)
	if err != nil {
		return tag, classify(op, err)
	}
	return tag, nil
}

// read ejecuta fn con límite de tiempo y la reintenta ante fallos transitorios.
func (c conn) read(ctx context.Context, op string, fn func(ctx context.Context, q Querier) error) error {
	backoff := 50 * time.Millisecond
	var err error
	for attempt := 0; ; attempt++ {
		opCtx, cancel := c.withTimeout(ctx)
		err = fn(opCtx, c.q)
		cancel()
		if err == nil || !isTransient(err) || attempt >= c.opt.ReadRetries || ctx.Err() != nil {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return classify(op, ctx.Err())
		}
		backoff *= 2
	}
	if err != nil {
		return classify(op, err)
	}
	return nil
}

// classify traduce errores de pgx a categorías de dominio conservando el original.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicate, err)
	case isFKViolation(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	case isTransient(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

// isFKViolation 23503: la fila está referenciada o la referencia no existe.
func isFKViolation(err error) bool {
	return pgCode(err) == "23503"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isTransient cubre timeouts, fallos de conexión y errores de clase 08/40/57P.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}
	code := pgCode(err)
	return strings.HasPrefix(code, "08") || code == "40001" || code == "40P01" || strings.HasPrefix(code, "57P")
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/turnos-api/internal/application/queue"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// Ensure TxRunner implements queue.TxRunner and usecase.CatalogTxRunner.
var (
	_ queue.TxRunner          = (*TxRunner)(nil)
	_ usecase.CatalogTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opt  Options
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opt Options) *TxRunner {
	return &TxRunner{pool: pool, opt: opt}
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(c conn) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newConn(r.pool, r.opt).inTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// RunQueue ejecuta fn con repos de servicios y tickets atados a la tx.
// GetForUpdate mantiene el bloqueo de fila hasta el Commit.
func (r *TxRunner) RunQueue(ctx context.Context, fn func(
	services repository.ServiceRepository,
	tickets repository.TicketRepository,
) error) error {
	return r.run(ctx, func(c conn) error {
		return fn(&ServiceRepo{conn: c}, &TicketRepo{conn: c})
	})
}

// RunCatalog ejecuta fn con repos de empresas, sedes y usuarios atados a la tx.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	companies repository.CompanyRepository,
	branches repository.BranchRepository,
	users repository.UserRepository,
) error) error {
	return r.run(ctx, func(c conn) error {
		return fn(&CompanyRepo{conn: c}, &BranchRepo{conn: c}, &UserRepo{conn: c})
	})
}

// Repos agrupa los repositorios sin transacción sobre el pool.
type Repos struct {
	Companies *CompanyRepo
	Branches  *BranchRepo
	Services  *ServiceRepo
	Tickets   *TicketRepo
	Locations *LocationRepo
	Functions *FunctionRepo
	Users     *UserRepo
	Clients   *ClientRepo
}

// NewRepos construye todos los repositorios sobre el pool.
func NewRepos(pool *pgxpool.Pool, opt Options) Repos {
	return Repos{
		Companies: NewCompanyRepository(pool, opt),
		Branches:  NewBranchRepository(pool, opt),
		Services:  NewServiceRepository(pool, opt),
		Tickets:   NewTicketRepository(pool, opt),
		Locations: NewLocationRepository(pool, opt),
		Functions: NewFunctionRepository(pool, opt),
		Users:     NewUserRepository(pool, opt),
		Clients:   NewClientRepository(pool, opt),
	}
}

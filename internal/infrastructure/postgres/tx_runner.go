package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner unidad de trabajo sobre una transacción READ COMMITTED.
// Los bloqueos de fila (FOR UPDATE) los toman los repositorios.
type TxRunner struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// Run ejecuta fn con los repositorios atados a la transacción.
// Cualquier error de fn deshace todo lo escrito.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, r.opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos arma el juego de repositorios sobre un Querier (pool o tx).
func NewRepos(q Querier) repository.Tx {
	return repository.Tx{
		Items:       NewItemRepository(q),
		BOM:         NewBOMRepository(q),
		Orders:      NewConversionOrderRepository(q),
		Movements:   NewMovementRepository(q),
		Stocktaking: NewStocktakingRepository(q),
		Sequences:   NewSequenceRepository(q),
	}
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/inventory"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
)

var (
	_ inventory.TxRunner       = (*TxRunner)(nil)
	_ inventory.SnapshotReader = (*TxRunner)(nil)
)

// snapshotOptions lectura de solo lectura con una única instantánea para toda la transacción.
var snapshotOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

type txFunc = func(
	movRepo repository.InventoryMovementRepository,
	itemRepo repository.InventoryItemRepository,
) error

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{}, fn)
}

// ReadSnapshot ejecuta fn en una transacción REPEATABLE READ de solo lectura.
func (r *TxRunner) ReadSnapshot(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	return r.run(ctx, snapshotOptions, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn txFunc) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInventoryMovementRepository(tx), NewInventoryItemRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/botiquin-api/internal/application/ledger"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool   *pgxpool.Pool
	legacy tenant.LegacyVisibility
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, legacy tenant.LegacyVisibility) *TxRunner {
	return &TxRunner{pool: pool, legacy: legacy}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Es la frontera de atomicidad de las operaciones de
// botiquín en modo atómico.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	txLogRepo repository.TransactionRepository,
	boxRepo repository.BoxRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	txLogRepo := NewTransactionRepository(tx)
	boxRepo := NewBoxRepository(tx, r.legacy)

	if err := fn(stockRepo, txLogRepo, boxRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

package ledger

import (
	"context"

	"github.com/jhoicas/botiquin-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la frontera de atomicidad del ledger:
// en modo atómico, mutación de botiquín, saldos y log comparten una misma tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		txLogRepo repository.TransactionRepository,
		boxRepo repository.BoxRepository,
	) error) error
}

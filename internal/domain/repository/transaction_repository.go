package repository

import (
	"time"

	"github.com/jhoicas/botiquin-api/internal/domain/entity"
)

// TransactionFilter acota la consulta del log de movimientos.
type TransactionFilter struct {
	DrugCode  string
	CollegeID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// TransactionRepository define el puerto del log de movimientos. Solo append
// y lectura: el log es inmutable y no expone update ni delete.
type TransactionRepository interface {
	Append(t *entity.DrugTransaction) (string, error)
	List(f TransactionFilter) ([]*entity.DrugTransaction, error)
}

package repository

import "github.com/jhoicas/botiquin-api/internal/domain/entity"

// StockRepository define el puerto para los saldos por ubicación+fármaco.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(drugID string, loc entity.Location) (*entity.StockBalance, error)
	// ApplyDelta suma el delta con signo de forma atómica en la base de datos
	// (incremento transaccional, no read-then-write). Si la fila no existe se
	// crea sembrada con el propio delta, aunque resulte negativa.
	ApplyDelta(drugID string, loc entity.Location, delta int, collegeID string) error
	// GetPharmacyQuantity devuelve el saldo de farmacia por código de fármaco
	// (0 si no hay fila). Chequeo consultivo previo a una dispensación.
	GetPharmacyQuantity(drugCode string) (int, error)
}

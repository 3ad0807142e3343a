package entity

import "time"

// Tipos de movimiento del ledger.
const (
	TransactionWarehouseToBox = "warehouse_to_box" // dispensación hacia un botiquín
	TransactionBoxReturn      = "box_return"       // devolución por borrado de elemento
)

// DrugTransaction es el registro de auditoría de un movimiento del ledger.
// Inmutable: nunca se actualiza ni se borra después de insertado. Es la única
// fuente para reconstruir el historial de saldos.
type DrugTransaction struct {
	ID             string
	DrugID         string
	DrugCode       string
	Type           string
	QuantityChange int // con signo: negativo al dispensar, positivo al devolver
	Source         string
	Destination    string
	Notes          string
	CollegeID      string
	CreatedBy      string
	CreatedAt      time.Time
}

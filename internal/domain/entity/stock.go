package entity

import "time"

// Location identifica una ubicación física con saldo propio por fármaco.
type Location string

const (
	LocationWarehouse Location = "warehouse" // bodega central
	LocationPharmacy  Location = "pharmacy"  // farmacia
)

// StockBalance es el saldo de un fármaco en una ubicación. Se crea de forma
// perezosa con el primer movimiento; la cantidad es un entero con signo y
// puede quedar negativa bajo la política best-effort (riesgo documentado,
// no invariante garantizada).
type StockBalance struct {
	DrugID      string
	Location    Location
	Quantity    int
	CollegeID   string
	LastUpdated time.Time
}

package entity

import "time"

// FirstAidBox es un botiquín físico de una facultad. LastReviewedAt se
// actualiza en cada vista de detalle; es telemetría, no dato de corrección.
type FirstAidBox struct {
	ID             string
	Name           string
	Location       string // descripción física ("pasillo 2, laboratorio B")
	CollegeID      string
	CreatedBy      string
	LastReviewedAt *time.Time
	CreatedAt      time.Time
}

// BoxItem es un elemento dentro de un botiquín. DrugName es texto libre
// (desacoplado del catálogo para tolerar artículos sin código); DrugCode,
// si está presente, enlaza con el catálogo a efectos del ledger.
// CollegeID se copia del claim del actor al crear y no se revalida después.
type BoxItem struct {
	ID         string
	BoxID      string
	CollegeID  string
	DrugName   string
	DrugCode   string // opcional
	Quantity   int
	Unit       string
	ExpiryDate *time.Time
	Notes      string
	CreatedAt  time.Time
}

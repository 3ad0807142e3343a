package entity

import "time"

// Drug es la entrada de catálogo de un fármaco, identificada por un código
// estable e inmutable. CollegeID vacío = fila legacy visible para todas las
// facultades (excepción de compatibilidad, no política para filas nuevas).
type Drug struct {
	ID          string
	Code        string // drug_code, único
	TradeName   string
	GenericName string
	Strength    string
	Form        string // presentación: tableta, jarabe, ampolla...
	Unit        string // unidad de dispensación
	IsActive    bool
	CollegeID   string
	CreatedBy   string
	CreatedAt   time.Time
}

// DrugAvailability combina la entrada de catálogo con el saldo disponible
// en farmacia, para el selector de "añadir al botiquín".
type DrugAvailability struct {
	Drug
	AvailableQty int
}

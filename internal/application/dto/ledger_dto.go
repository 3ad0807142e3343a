package dto

import (
	"time"

	"github.com/jhoicas/botiquin-api/internal/domain/entity"
)

// TransactionQuery filtros del log de movimientos.
type TransactionQuery struct {
	DrugCode string `query:"drug_code"`
	From     string `query:"from"` // 2006-01-02
	To       string `query:"to"`
	PageRequest
}

// TransactionResponse registro de auditoría (inmutable).
type TransactionResponse struct {
	ID             string    `json:"id"`
	DrugCode       string    `json:"drug_code"`
	Type           string    `json:"type"`
	QuantityChange int       `json:"quantity_change"`
	Source         string    `json:"source"`
	Destination    string    `json:"destination"`
	Notes          string    `json:"notes,omitempty"`
	CollegeID      string    `json:"college_id,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToTransactionResponse mapea el registro.
func ToTransactionResponse(t *entity.DrugTransaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		DrugCode:       t.DrugCode,
		Type:           t.Type,
		QuantityChange: t.QuantityChange,
		Source:         t.Source,
		Destination:    t.Destination,
		Notes:          t.Notes,
		CollegeID:      t.CollegeID,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
	}
}

package dto

import (
	"time"

	"github.com/jhoicas/botiquin-api/internal/application/firstaid"
	"github.com/jhoicas/botiquin-api/internal/application/ledger"
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
)

// CreateBoxRequest alta de botiquín.
type CreateBoxRequest struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}

// AddItemRequest añadir un fármaco al botiquín. expiry_date en formato
// 2006-01-02; vacío = sin caducidad registrada.
type AddItemRequest struct {
	DrugName   string `json:"drug_name" validate:"required"`
	DrugCode   string `json:"drug_code"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	Unit       string `json:"unit"`
	ExpiryDate string `json:"expiry_date"`
	Notes      string `json:"notes"`
}

// BoxResponse proyección de botiquín.
type BoxResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Location       string     `json:"location"`
	CollegeID      string     `json:"college_id,omitempty"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// BoxItemResponse proyección de elemento.
type BoxItemResponse struct {
	ID         string     `json:"id"`
	DrugName   string     `json:"drug_name"`
	DrugCode   string     `json:"drug_code,omitempty"`
	Quantity   int        `json:"quantity"`
	Unit       string     `json:"unit"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Expired    bool       `json:"expired"`
	Notes      string     `json:"notes,omitempty"`
}

// MovementResponse desenlace de ledger visible para el caller.
type MovementResponse struct {
	Applied       bool   `json:"applied"`
	Skipped       bool   `json:"skipped"`
	Degraded      bool   `json:"degraded"`
	Warning       string `json:"warning,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// BoxDetailResponse vista de detalle (autenticada).
type BoxDetailResponse struct {
	Box   BoxResponse       `json:"box"`
	Items []BoxItemResponse `json:"items"`
	Today string            `json:"today"`
}

// PublicBoxResponse vista pública enlazada por QR: sin facultad ni telemetría.
type PublicBoxResponse struct {
	Name     string            `json:"name"`
	Location string            `json:"location"`
	Items    []BoxItemResponse `json:"items"`
	Today    string            `json:"today"`
}

// AddItemResponse elemento creado + desenlace del ledger.
type AddItemResponse struct {
	Item     BoxItemResponse  `json:"item"`
	Movement MovementResponse `json:"movement"`
}

// ToBoxResponse mapea la entidad.
func ToBoxResponse(b *entity.FirstAidBox) BoxResponse {
	return BoxResponse{
		ID:             b.ID,
		Name:           b.Name,
		Location:       b.Location,
		CollegeID:      b.CollegeID,
		LastReviewedAt: b.LastReviewedAt,
		CreatedAt:      b.CreatedAt,
	}
}

// ToBoxItemResponse mapea un elemento, marcando caducados respecto a today.
func ToBoxItemResponse(it *entity.BoxItem, today time.Time) BoxItemResponse {
	expired := it.ExpiryDate != nil && it.ExpiryDate.Before(today)
	return BoxItemResponse{
		ID:         it.ID,
		DrugName:   it.DrugName,
		DrugCode:   it.DrugCode,
		Quantity:   it.Quantity,
		Unit:       it.Unit,
		ExpiryDate: it.ExpiryDate,
		Expired:    expired,
		Notes:      it.Notes,
	}
}

// ToMovementResponse mapea el resultado del ledger.
func ToMovementResponse(r ledger.MovementResult) MovementResponse {
	return MovementResponse{
		Applied:       r.Applied,
		Skipped:       r.Skipped,
		Degraded:      r.Degraded,
		Warning:       r.Warning,
		TransactionID: r.TransactionID,
	}
}

// ToBoxDetailResponse mapea el snapshot de detalle.
func ToBoxDetailResponse(s *firstaid.BoxSnapshot) BoxDetailResponse {
	out := BoxDetailResponse{
		Box:   ToBoxResponse(s.Box),
		Items: make([]BoxItemResponse, 0, len(s.Items)),
		Today: s.Today.Format("2006-01-02"),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, ToBoxItemResponse(it, s.Today))
	}
	return out
}

// ToPublicBoxResponse mapea el snapshot público.
func ToPublicBoxResponse(s *firstaid.PublicBoxSnapshot) PublicBoxResponse {
	out := PublicBoxResponse{
		Name:     s.Name,
		Location: s.Location,
		Items:    make([]BoxItemResponse, 0, len(s.Items)),
		Today:    s.Today.Format("2006-01-02"),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, ToBoxItemResponse(it, s.Today))
	}
	return out
}

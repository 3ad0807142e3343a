package dto

import "github.com/jhoicas/botiquin-api/internal/domain/entity"

// CreateDrugRequest alta en el catálogo de fármacos.
type CreateDrugRequest struct {
	Code        string `json:"code" validate:"required"`
	TradeName   string `json:"trade_name" validate:"required"`
	GenericName string `json:"generic_name"`
	Strength    string `json:"strength"`
	Form        string `json:"form"`
	Unit        string `json:"unit"`
}

// DrugResponse proyección de catálogo.
type DrugResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	TradeName   string `json:"trade_name"`
	GenericName string `json:"generic_name,omitempty"`
	Strength    string `json:"strength,omitempty"`
	Form        string `json:"form,omitempty"`
	Unit        string `json:"unit,omitempty"`
	IsActive    bool   `json:"is_active"`
	CollegeID   string `json:"college_id,omitempty"`
}

// DrugAvailabilityResponse catálogo + saldo de farmacia para el selector.
type DrugAvailabilityResponse struct {
	DrugResponse
	AvailableQty int `json:"available_quantity"`
}

// ToDrugResponse mapea la entidad.
func ToDrugResponse(d *entity.Drug) DrugResponse {
	return DrugResponse{
		ID:          d.ID,
		Code:        d.Code,
		TradeName:   d.TradeName,
		GenericName: d.GenericName,
		Strength:    d.Strength,
		Form:        d.Form,
		Unit:        d.Unit,
		IsActive:    d.IsActive,
		CollegeID:   d.CollegeID,
	}
}

// ToDrugAvailabilityResponse mapea catálogo + saldo.
func ToDrugAvailabilityResponse(d *entity.DrugAvailability) DrugAvailabilityResponse {
	return DrugAvailabilityResponse{
		DrugResponse: ToDrugResponse(&d.Drug),
		AvailableQty: d.AvailableQty,
	}
}

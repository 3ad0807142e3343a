package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/botiquin-api/internal/application/catalog"
	"github.com/jhoicas/botiquin-api/internal/application/dto"
)

// DrugHandler maneja el catálogo de fármacos.
type DrugHandler struct {
	uc *catalog.UseCase
}

// NewDrugHandler construye el handler.
func NewDrugHandler(uc *catalog.UseCase) *DrugHandler {
	return &DrugHandler{uc: uc}
}

// Create godoc
// @Summary      Alta en el catálogo de fármacos
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDrugRequest  true  "código, nombre comercial y presentación"
// @Success      201   {object}  dto.DrugResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/drugs [post]
func (h *DrugHandler) Create(c *fiber.Ctx) error {
	user := GetUser(c)
	var in dto.CreateDrugRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	drug, err := h.uc.CreateDrug(c.Context(), user, catalog.CreateDrugInput{
		Code:        in.Code,
		TradeName:   in.TradeName,
		GenericName: in.GenericName,
		Strength:    in.Strength,
		Form:        in.Form,
		Unit:        in.Unit,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToDrugResponse(drug))
}

// ListAvailable godoc
// @Summary      Fármacos visibles para el actor con saldo de farmacia
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.DrugAvailabilityResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/drugs/available [get]
func (h *DrugHandler) ListAvailable(c *fiber.Ctx) error {
	user := GetUser(c)
	drugs, err := h.uc.ListAvailable(c.Context(), user)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.DrugAvailabilityResponse, 0, len(drugs))
	for _, d := range drugs {
		out = append(out, dto.ToDrugAvailabilityResponse(d))
	}
	return c.JSON(out)
}

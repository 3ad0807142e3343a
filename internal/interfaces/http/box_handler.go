package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/botiquin-api/internal/application/dto"
	"github.com/jhoicas/botiquin-api/internal/application/firstaid"
)

// BoxHandler maneja las peticiones de botiquines y su contenido.
type BoxHandler struct {
	uc *firstaid.UseCase
}

// NewBoxHandler construye el handler.
func NewBoxHandler(uc *firstaid.UseCase) *BoxHandler {
	return &BoxHandler{uc: uc}
}

// Create godoc
// @Summary      Crear botiquín
// @Tags         first-aid
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBoxRequest  true  "nombre y ubicación física"
// @Success      201   {object}  dto.BoxResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/first-aid/boxes [post]
func (h *BoxHandler) Create(c *fiber.Ctx) error {
	user := GetUser(c)
	var in dto.CreateBoxRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	box, err := h.uc.CreateBox(c.Context(), user, in.Name, in.Location)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBoxResponse(box))
}

// List godoc
// @Summary      Listar botiquines visibles para el actor
// @Tags         first-aid
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.BoxResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/first-aid/boxes [get]
func (h *BoxHandler) List(c *fiber.Ctx) error {
	user := GetUser(c)
	boxes, err := h.uc.ListBoxes(c.Context(), user)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.BoxResponse, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, dto.ToBoxResponse(b))
	}
	return c.JSON(out)
}

// Detail godoc
// @Summary      Detalle de un botiquín (actualiza last_reviewed_at)
// @Tags         first-aid
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "id del botiquín"
// @Success      200  {object}  dto.BoxDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/first-aid/boxes/{id} [get]
func (h *BoxHandler) Detail(c *fiber.Ctx) error {
	user := GetUser(c)
	snap, err := h.uc.GetBoxView(c.Context(), user, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToBoxDetailResponse(snap))
}

// PublicDetail godoc
// @Summary      Vista pública de un botiquín (enlazada por QR, sin token)
// @Tags         first-aid
// @Produce      json
// @Param        id   path      string  true  "id del botiquín"
// @Success      200  {object}  dto.PublicBoxResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/first-aid/boxes/{id}/public [get]
func (h *BoxHandler) PublicDetail(c *fiber.Ctx) error {
	snap, err := h.uc.GetPublicBoxView(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToPublicBoxResponse(snap))
}

// AddItem godoc
// @Summary      Añadir fármaco al botiquín (dispara el ledger si hay código)
// @Tags         first-aid
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "id del botiquín"
// @Param        body  body  dto.AddItemRequest  true  "drug_name, drug_code opcional, quantity, unit, expiry_date, notes"
// @Success      201   {object}  dto.AddItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/first-aid/boxes/{id}/items [post]
func (h *BoxHandler) AddItem(c *fiber.Ctx) error {
	user := GetUser(c)
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := firstaid.AddItemInput{
		DrugName: in.DrugName,
		DrugCode: in.DrugCode,
		Quantity: in.Quantity,
		Unit:     in.Unit,
		Notes:    in.Notes,
	}
	if in.ExpiryDate != "" {
		// Fecha malformada se ignora, igual que el formulario original.
		if d, err := time.Parse("2006-01-02", in.ExpiryDate); err == nil {
			input.ExpiryDate = &d
		}
	}
	item, movement, err := h.uc.AddItemToBox(c.Context(), user, c.Params("id"), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AddItemResponse{
		Item:     dto.ToBoxItemResponse(item, time.Now()),
		Movement: dto.ToMovementResponse(movement),
	})
}

// RemoveItem godoc
// @Summary      Retirar fármaco del botiquín (revierte el ledger si hay código)
// @Tags         first-aid
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "id del botiquín"
// @Param        itemID  path  string  true  "id del elemento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/first-aid/boxes/{id}/items/{itemID} [delete]
func (h *BoxHandler) RemoveItem(c *fiber.Ctx) error {
	user := GetUser(c)
	movement, err := h.uc.RemoveItemFromBox(c.Context(), user, c.Params("id"), c.Params("itemID"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(movement))
}

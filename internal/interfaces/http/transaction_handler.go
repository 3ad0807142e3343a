package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/botiquin-api/internal/application/dto"
	"github.com/jhoicas/botiquin-api/internal/application/ledger"
	"github.com/jhoicas/botiquin-api/internal/domain"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
)

// TransactionHandler expone la lectura del log de movimientos.
type TransactionHandler struct {
	uc *ledger.UseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *ledger.UseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// List godoc
// @Summary      Log de movimientos de fármacos (auditoría, solo lectura)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        drug_code  query  string  false  "filtrar por código de fármaco"
// @Param        from       query  string  false  "fecha mínima 2006-01-02"
// @Param        to         query  string  false  "fecha máxima 2006-01-02"
// @Param        limit      query  int     false  "máximo de registros"
// @Param        offset     query  int     false  "desplazamiento"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	user := GetUser(c)
	claim := tenant.Resolve(user)
	if claim.IsNone() {
		return respondDomainError(c, domain.ErrTenantUnassigned)
	}

	var q dto.TransactionQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	q.DefaultPage()

	filter := repository.TransactionFilter{
		DrugCode: q.DrugCode,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	// El claim con facultad solo ve los movimientos de la suya.
	if claim.IsScoped() {
		filter.CollegeID = claim.College()
	}
	if q.From != "" {
		d, err := time.Parse("2006-01-02", q.From)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from: fecha inválida"})
		}
		filter.From = &d
	}
	if q.To != "" {
		d, err := time.Parse("2006-01-02", q.To)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to: fecha inválida"})
		}
		// Límite superior inclusivo hasta el final del día.
		end := d.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	txs, err := h.uc.ListTransactions(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, dto.ToTransactionResponse(t))
	}
	return c.JSON(out)
}

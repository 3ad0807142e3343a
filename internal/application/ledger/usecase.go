// Package ledger implementa el motor de movimientos de stock: aplica deltas
// con signo sobre los saldos por ubicación y deja exactamente un registro de
// auditoría por movimiento lógico.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/botiquin-api/internal/domain"
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
	"github.com/jhoicas/botiquin-api/pkg/logger"
)

// Mode es la política de consistencia del ledger, expuesta como contrato de
// configuración en lugar de quedar implícita en el manejo de errores.
type Mode string

const (
	// ModeBestEffort: la contabilidad de stock es telemetría sobre el
	// contenido del botiquín, que es lo autoritativo. Los fallos de
	// persistencia del ledger se registran en el log y se tragan; la
	// operación primaria sigue reportando éxito con la marca Degraded.
	ModeBestEffort Mode = "best_effort"
	// ModeAtomic: saldos y auditoría comprometen o revierten junto con la
	// mutación primaria; el chequeo de farmacia pasa a ser bloqueante.
	ModeAtomic Mode = "atomic"
)

// ParseMode normaliza el valor de configuración; desconocido cae a best_effort
// (el comportamiento histórico).
func ParseMode(s string) Mode {
	if Mode(s) == ModeAtomic {
		return ModeAtomic
	}
	return ModeBestEffort
}

// LocationDelta es el delta con signo a aplicar en una ubicación concreta.
// El caller entrega un delta por ubicación involucrada en el movimiento.
type LocationDelta struct {
	Location entity.Location
	Delta    int
}

// MovementInput describe un movimiento lógico completo.
type MovementInput struct {
	DrugCode    string
	Quantity    int // magnitud, > 0
	Type        string
	Deltas      []LocationDelta
	Source      string
	Destination string
	Notes       string
	CollegeID   string
	ActorID     string
}

// MovementResult es el desenlace observable de un movimiento.
type MovementResult struct {
	Applied       bool   // los saldos y el log se escribieron
	Skipped       bool   // sin código o código fuera de catálogo: no hay ledger
	Warning       string // aviso consultivo (stock insuficiente en best-effort)
	Degraded      bool   // fallo de persistencia tragado en best-effort
	TransactionID string // id del registro de auditoría, si se escribió
}

// Prepared es un movimiento validado y listo para aplicarse dentro de una
// transacción (posiblemente la del caller, en modo atómico).
type Prepared struct {
	Drug    *entity.Drug
	Input   MovementInput
	Warning string
	TxID    string
}

// UseCase aplica y revierte movimientos del ledger según el modo configurado.
type UseCase struct {
	mode      Mode
	txRunner  TxRunner
	drugRepo  repository.DrugRepository
	stockRepo repository.StockRepository
	txLogRepo repository.TransactionRepository // atado al pool, para lecturas
	log       *logger.Logger
}

// NewUseCase construye el motor del ledger.
func NewUseCase(
	mode Mode,
	txRunner TxRunner,
	drugRepo repository.DrugRepository,
	stockRepo repository.StockRepository,
	txLogRepo repository.TransactionRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		mode:      mode,
		txRunner:  txRunner,
		drugRepo:  drugRepo,
		stockRepo: stockRepo,
		txLogRepo: txLogRepo,
		log:       log,
	}
}

// Mode devuelve la política activa.
func (uc *UseCase) Mode() Mode { return uc.mode }

// signedChange calcula el cambio neto que queda en el registro de auditoría.
func signedChange(movType string, quantity int) int {
	if movType == entity.TransactionWarehouseToBox {
		return -quantity
	}
	return quantity
}

// Prepare valida la entrada, resuelve el fármaco por código y ejecuta el
// chequeo consultivo de farmacia. Devuelve (nil, nil) si el código no está en
// catálogo: el movimiento se omite por completo sin que sea un error.
// En modo atómico un saldo de farmacia insuficiente se promueve a
// ErrInsufficientStock y aborta antes de cualquier escritura.
func (uc *UseCase) Prepare(input MovementInput) (*Prepared, error) {
	if input.Quantity <= 0 || len(input.Deltas) == 0 {
		return nil, domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.TransactionWarehouseToBox, entity.TransactionBoxReturn:
	default:
		return nil, domain.ErrInvalidInput
	}
	if input.DrugCode == "" {
		return nil, nil
	}

	drug, err := uc.drugRepo.GetByCode(input.DrugCode)
	if err != nil {
		if uc.mode == ModeAtomic {
			return nil, fmt.Errorf("resolver fármaco %q: %w", input.DrugCode, err)
		}
		uc.log.Warn().Err(err).Str("drug_code", input.DrugCode).
			Msg("ledger: fallo al resolver fármaco, movimiento omitido")
		return nil, nil
	}
	if drug == nil {
		return nil, nil
	}

	p := &Prepared{
		Drug:  drug,
		Input: input,
		TxID:  uuid.New().String(),
	}

	// Chequeo consultivo: solo al dispensar. No bloquea en best-effort.
	if input.Type == entity.TransactionWarehouseToBox {
		avail, err := uc.stockRepo.GetPharmacyQuantity(input.DrugCode)
		if err != nil {
			if uc.mode == ModeAtomic {
				return nil, fmt.Errorf("saldo de farmacia de %q: %w", input.DrugCode, err)
			}
			uc.log.Warn().Err(err).Str("drug_code", input.DrugCode).
				Msg("ledger: chequeo de farmacia falló, se continúa sin aviso")
		} else if input.Quantity > avail {
			if uc.mode == ModeAtomic {
				return nil, domain.ErrInsufficientStock
			}
			p.Warning = fmt.Sprintf(
				"la cantidad solicitada (%d) supera el saldo registrado en farmacia (%d)",
				input.Quantity, avail,
			)
		}
	}
	return p, nil
}

// ApplyPrepared ejecuta las escrituras de un movimiento preparado usando los
// repositorios proporcionados (misma transacción del caller): un delta por
// ubicación más exactamente un registro de auditoría.
func (uc *UseCase) ApplyPrepared(
	stockRepo repository.StockRepository,
	txLogRepo repository.TransactionRepository,
	p *Prepared,
) error {
	in := p.Input
	for _, ld := range in.Deltas {
		if err := stockRepo.ApplyDelta(p.Drug.ID, ld.Location, ld.Delta, in.CollegeID); err != nil {
			return fmt.Errorf("delta de %d en %s: %w", ld.Delta, ld.Location, err)
		}
	}
	rec := &entity.DrugTransaction{
		ID:             p.TxID,
		DrugID:         p.Drug.ID,
		DrugCode:       in.DrugCode,
		Type:           in.Type,
		QuantityChange: signedChange(in.Type, in.Quantity),
		Source:         in.Source,
		Destination:    in.Destination,
		Notes:          in.Notes,
		CollegeID:      in.CollegeID,
		CreatedBy:      in.ActorID,
	}
	if _, err := txLogRepo.Append(rec); err != nil {
		return fmt.Errorf("append al log de movimientos: %w", err)
	}
	return nil
}

// ApplyMovement aplica un movimiento completo en su propia transacción.
// En best-effort un fallo de escritura se registra y se traga (Degraded=true);
// en atómico se propaga y la transacción revierte.
func (uc *UseCase) ApplyMovement(ctx context.Context, input MovementInput) (MovementResult, error) {
	p, err := uc.Prepare(input)
	if err != nil {
		return MovementResult{}, err
	}
	if p == nil {
		return MovementResult{Skipped: true}, nil
	}

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		txLogRepo repository.TransactionRepository,
		_ repository.BoxRepository,
	) error {
		return uc.ApplyPrepared(stockRepo, txLogRepo, p)
	})
	if err != nil {
		if uc.mode == ModeAtomic {
			return MovementResult{}, err
		}
		uc.log.Error().Err(err).
			Str("drug_code", input.DrugCode).
			Str("type", input.Type).
			Int("quantity", input.Quantity).
			Msg("ledger: fallo de persistencia tragado (best-effort)")
		return MovementResult{Degraded: true, Warning: p.Warning}, nil
	}
	return MovementResult{Applied: true, Warning: p.Warning, TransactionID: p.TxID}, nil
}

// ReverseMovement restaura los deltas inversos exactos de un movimiento de
// dispensación y deja un registro box_return con origen y destino invertidos.
// Se invoca al borrar un elemento de botiquín.
func (uc *UseCase) ReverseMovement(ctx context.Context, original MovementInput) (MovementResult, error) {
	return uc.ApplyMovement(ctx, Reversal(original))
}

// Reversal construye la entrada inversa de un movimiento de dispensación.
func Reversal(original MovementInput) MovementInput {
	inv := MovementInput{
		DrugCode:    original.DrugCode,
		Quantity:    original.Quantity,
		Type:        entity.TransactionBoxReturn,
		Source:      original.Destination,
		Destination: original.Source,
		Notes:       original.Notes,
		CollegeID:   original.CollegeID,
		ActorID:     original.ActorID,
	}
	for _, ld := range original.Deltas {
		inv.Deltas = append(inv.Deltas, LocationDelta{Location: ld.Location, Delta: -ld.Delta})
	}
	return inv
}

// DispenseInput construye el movimiento estándar de dispensación hacia un
// botiquín: bodega y farmacia decrementan la misma magnitud (el botiquín se
// surte de stock de farmacia respaldado por bodega).
func DispenseInput(drugCode string, quantity int, boxID, boxName, collegeID, actorID string) MovementInput {
	return MovementInput{
		DrugCode: drugCode,
		Quantity: quantity,
		Type:     entity.TransactionWarehouseToBox,
		Deltas: []LocationDelta{
			{Location: entity.LocationWarehouse, Delta: -quantity},
			{Location: entity.LocationPharmacy, Delta: -quantity},
		},
		Source:      "warehouse",
		Destination: "box_" + boxID,
		Notes:       "añadido al botiquín: " + boxName,
		CollegeID:   collegeID,
		ActorID:     actorID,
	}
}

// ListTransactions consulta el log inmutable con los filtros dados.
func (uc *UseCase) ListTransactions(ctx context.Context, f repository.TransactionFilter) ([]*entity.DrugTransaction, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return uc.txLogRepo.List(f)
}

// PharmacyAvailableQuantity expone el saldo consultivo de farmacia por código.
func (uc *UseCase) PharmacyAvailableQuantity(ctx context.Context, drugCode string) (int, error) {
	return uc.stockRepo.GetPharmacyQuantity(drugCode)
}

// Package firstaid orquesta las operaciones de alto nivel sobre botiquines:
// crear/listar botiquines, añadir y retirar fármacos (disparando el ledger) y
// las vistas de detalle y pública.
package firstaid

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/botiquin-api/internal/application/ledger"
	"github.com/jhoicas/botiquin-api/internal/domain"
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
	"github.com/jhoicas/botiquin-api/pkg/logger"
)

// DefaultUnit es la unidad cuando el formulario no indica una.
const DefaultUnit = "unidad"

// UseCase es el gestor de inventario de botiquines.
type UseCase struct {
	guard    tenant.Guard
	boxRepo  repository.BoxRepository
	ledgerUC *ledger.UseCase
	txRunner ledger.TxRunner
	log      *logger.Logger
}

// NewUseCase construye el gestor.
func NewUseCase(
	guard tenant.Guard,
	boxRepo repository.BoxRepository,
	ledgerUC *ledger.UseCase,
	txRunner ledger.TxRunner,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		guard:    guard,
		boxRepo:  boxRepo,
		ledgerUC: ledgerUC,
		txRunner: txRunner,
		log:      log,
	}
}

// AddItemInput es la entrada de "añadir fármaco al botiquín".
type AddItemInput struct {
	DrugName   string
	DrugCode   string // opcional; sin código no hay movimiento de ledger
	Quantity   int
	Unit       string
	ExpiryDate *time.Time
	Notes      string
}

// BoxSnapshot es la proyección de detalle de un botiquín.
type BoxSnapshot struct {
	Box   *entity.FirstAidBox
	Items []*entity.BoxItem
	Today time.Time // para comparar caducidades en la vista
}

// PublicBoxSnapshot es la proyección pública (página enlazada por QR).
// Solo nombre, ubicación y contenido: sin facultad, creador ni telemetría.
type PublicBoxSnapshot struct {
	BoxID    string
	Name     string
	Location string
	Items    []*entity.BoxItem
	Today    time.Time
}

// CreateBox crea un botiquín para la facultad del actor. Requiere claim
// Scoped: sin facultad asignada no se puede crear (también para admins, que
// no portan facultad propia).
func (uc *UseCase) CreateBox(ctx context.Context, user *entity.User, name, location string) (*entity.FirstAidBox, error) {
	claim := tenant.Resolve(user)
	if !claim.IsScoped() {
		return nil, domain.ErrTenantUnassigned
	}
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	box := &entity.FirstAidBox{
		ID:        uuid.New().String(),
		Name:      name,
		Location:  location,
		CollegeID: claim.College(),
		CreatedBy: user.ID,
		CreatedAt: time.Now(),
	}
	if err := uc.boxRepo.CreateBox(box); err != nil {
		return nil, err
	}
	return box, nil
}

// ListBoxes lista los botiquines visibles para el actor. Claim None no ve
// nada: el listado es una lectura sensible y se rechaza de forma uniforme.
func (uc *UseCase) ListBoxes(ctx context.Context, user *entity.User) ([]*entity.FirstAidBox, error) {
	claim := tenant.Resolve(user)
	if claim.IsNone() {
		return nil, domain.ErrTenantUnassigned
	}
	return uc.boxRepo.ListBoxes(claim)
}

// loadAuthorizedBox carga el botiquín y aplica la guarda de facultad.
func (uc *UseCase) loadAuthorizedBox(claim tenant.Claim, boxID string) (*entity.FirstAidBox, error) {
	box, err := uc.boxRepo.GetBox(boxID)
	if err != nil {
		return nil, err
	}
	if box == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.guard.Authorize(claim, box.CollegeID); err != nil {
		return nil, err
	}
	return box, nil
}

// AddItemToBox registra un fármaco en el botiquín y, si viene con código de
// catálogo, dispara el movimiento warehouse_to_box en el ledger.
//
// La facultad del elemento se copia del claim del actor (para un admin global,
// del botiquín). En modo atómico la inserción del elemento y el ledger
// comprometen juntos; en best-effort el elemento se persiste primero y los
// fallos del ledger no lo revierten.
func (uc *UseCase) AddItemToBox(ctx context.Context, user *entity.User, boxID string, in AddItemInput) (*entity.BoxItem, ledger.MovementResult, error) {
	claim := tenant.Resolve(user)
	if claim.IsNone() {
		return nil, ledger.MovementResult{}, domain.ErrTenantUnassigned
	}
	box, err := uc.loadAuthorizedBox(claim, boxID)
	if err != nil {
		return nil, ledger.MovementResult{}, err
	}
	if in.DrugName == "" || in.Quantity <= 0 {
		return nil, ledger.MovementResult{}, domain.ErrInvalidInput
	}

	itemCollege := claim.College()
	if claim.IsGlobal() {
		itemCollege = box.CollegeID
	}
	unit := in.Unit
	if unit == "" {
		unit = DefaultUnit
	}
	item := &entity.BoxItem{
		ID:         uuid.New().String(),
		BoxID:      box.ID,
		CollegeID:  itemCollege,
		DrugName:   in.DrugName,
		DrugCode:   in.DrugCode,
		Quantity:   in.Quantity,
		Unit:       unit,
		ExpiryDate: in.ExpiryDate,
		Notes:      in.Notes,
		CreatedAt:  time.Now(),
	}

	movement := ledger.DispenseInput(in.DrugCode, in.Quantity, box.ID, box.Name, itemCollege, user.ID)

	if uc.ledgerUC.Mode() == ledger.ModeAtomic {
		res, err := uc.addItemAtomic(ctx, item, movement)
		return item, res, err
	}

	// Best-effort: el elemento compromete por su cuenta; el ledger después.
	if err := uc.boxRepo.CreateItem(item); err != nil {
		return nil, ledger.MovementResult{}, err
	}
	var res ledger.MovementResult
	if in.DrugCode != "" {
		res, _ = uc.ledgerUC.ApplyMovement(ctx, movement) // nunca falla en best-effort
	} else {
		res = ledger.MovementResult{Skipped: true}
	}
	return item, res, nil
}

// addItemAtomic inserta el elemento y aplica el ledger en una única
// transacción. Un rechazo (stock insuficiente, fallo de escritura) revierte
// todo: nunca queda un elemento a medio crear sin error reportado.
func (uc *UseCase) addItemAtomic(ctx context.Context, item *entity.BoxItem, movement ledger.MovementInput) (ledger.MovementResult, error) {
	var p *ledger.Prepared
	if movement.DrugCode != "" {
		var err error
		p, err = uc.ledgerUC.Prepare(movement)
		if err != nil {
			return ledger.MovementResult{}, err
		}
	}
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		txLogRepo repository.TransactionRepository,
		boxRepo repository.BoxRepository,
	) error {
		if err := boxRepo.CreateItem(item); err != nil {
			return err
		}
		if p != nil {
			return uc.ledgerUC.ApplyPrepared(stockRepo, txLogRepo, p)
		}
		return nil
	})
	if err != nil {
		return ledger.MovementResult{}, err
	}
	if p == nil {
		return ledger.MovementResult{Skipped: true}, nil
	}
	return ledger.MovementResult{Applied: true, TransactionID: p.TxID}, nil
}

// RemoveItemFromBox borra un elemento del botiquín y, si tenía código de
// catálogo, revierte el movimiento original (box_return). En best-effort el
// borrado procede aunque la reversión falle.
func (uc *UseCase) RemoveItemFromBox(ctx context.Context, user *entity.User, boxID, itemID string) (ledger.MovementResult, error) {
	claim := tenant.Resolve(user)
	if claim.IsNone() {
		return ledger.MovementResult{}, domain.ErrTenantUnassigned
	}
	box, err := uc.loadAuthorizedBox(claim, boxID)
	if err != nil {
		return ledger.MovementResult{}, err
	}

	item, err := uc.boxRepo.GetItem(box.ID, itemID)
	if err != nil {
		return ledger.MovementResult{}, err
	}
	if item == nil {
		// Distinto de ErrNotFound del botiquín: el id no pertenece a este botiquín.
		return ledger.MovementResult{}, domain.ErrItemNotFound
	}

	// Capturar antes de borrar: la reversión necesita código y cantidad.
	original := ledger.DispenseInput(item.DrugCode, item.Quantity, box.ID, box.Name, item.CollegeID, user.ID)
	original.Notes = "devolución por borrado de elemento"
	reversal := ledger.Reversal(original)

	if uc.ledgerUC.Mode() == ledger.ModeAtomic {
		return uc.removeItemAtomic(ctx, box.ID, item, reversal)
	}

	if err := uc.boxRepo.DeleteItem(box.ID, item.ID); err != nil {
		return ledger.MovementResult{}, err
	}
	if item.DrugCode == "" {
		return ledger.MovementResult{Skipped: true}, nil
	}
	res, _ := uc.ledgerUC.ApplyMovement(ctx, reversal)
	return res, nil
}

func (uc *UseCase) removeItemAtomic(ctx context.Context, boxID string, item *entity.BoxItem, reversal ledger.MovementInput) (ledger.MovementResult, error) {
	var p *ledger.Prepared
	if item.DrugCode != "" {
		var err error
		p, err = uc.ledgerUC.Prepare(reversal)
		if err != nil {
			return ledger.MovementResult{}, err
		}
	}
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		txLogRepo repository.TransactionRepository,
		boxRepo repository.BoxRepository,
	) error {
		if err := boxRepo.DeleteItem(boxID, item.ID); err != nil {
			return err
		}
		if p != nil {
			return uc.ledgerUC.ApplyPrepared(stockRepo, txLogRepo, p)
		}
		return nil
	})
	if err != nil {
		return ledger.MovementResult{}, err
	}
	if p == nil {
		return ledger.MovementResult{Skipped: true}, nil
	}
	return ledger.MovementResult{Applied: true, TransactionID: p.TxID}, nil
}

// GetBoxView devuelve el detalle de un botiquín para un actor autenticado.
// Actualiza last_reviewed_at en cada visita; ese write-on-read es telemetría
// y su fallo no tumba la lectura.
func (uc *UseCase) GetBoxView(ctx context.Context, user *entity.User, boxID string) (*BoxSnapshot, error) {
	claim := tenant.Resolve(user)
	box, err := uc.loadAuthorizedBox(claim, boxID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := uc.boxRepo.TouchReviewed(box.ID, now); err != nil {
		uc.log.Warn().Err(err).Str("box_id", box.ID).Msg("no se pudo actualizar last_reviewed_at")
	} else {
		box.LastReviewedAt = &now
	}
	items, err := uc.boxRepo.ListItems(box.ID)
	if err != nil {
		return nil, err
	}
	return &BoxSnapshot{Box: box, Items: items, Today: now}, nil
}

// GetPublicBoxView devuelve la proyección pública de un botiquín, sin
// autenticación ni chequeo de facultad: está pensada para quien escanea la
// etiqueta QR estando físicamente delante del botiquín. Lo único que revela
// es la existencia del botiquín consultado; no hay enumeración.
func (uc *UseCase) GetPublicBoxView(ctx context.Context, boxID string) (*PublicBoxSnapshot, error) {
	box, err := uc.boxRepo.GetBox(boxID)
	if err != nil {
		return nil, err
	}
	if box == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.boxRepo.ListItems(box.ID)
	if err != nil {
		return nil, err
	}
	return &PublicBoxSnapshot{
		BoxID:    box.ID,
		Name:     box.Name,
		Location: box.Location,
		Items:    items,
		Today:    time.Now(),
	}, nil
}

// Package catalog expone la consulta del catálogo de fármacos y el alta de
// entradas nuevas con la facultad sellada desde el claim del actor.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/botiquin-api/internal/domain"
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
)

// UseCase gestiona lecturas y altas del catálogo.
type UseCase struct {
	drugRepo  repository.DrugRepository
	stockRepo repository.StockRepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(drugRepo repository.DrugRepository, stockRepo repository.StockRepository) *UseCase {
	return &UseCase{drugRepo: drugRepo, stockRepo: stockRepo}
}

// CreateDrugInput es el alta de una entrada de catálogo.
type CreateDrugInput struct {
	Code        string
	TradeName   string
	GenericName string
	Strength    string
	Form        string
	Unit        string
}

// CreateDrug registra un fármaco nuevo. La facultad se copia del claim del
// actor en el momento del alta (las filas nuevas nunca nacen sin facultad;
// solo las legacy carecen de ella). Código duplicado devuelve ErrDuplicate.
func (uc *UseCase) CreateDrug(ctx context.Context, user *entity.User, in CreateDrugInput) (*entity.Drug, error) {
	claim := tenant.Resolve(user)
	if !claim.IsScoped() {
		return nil, domain.ErrTenantUnassigned
	}
	if in.Code == "" || in.TradeName == "" {
		return nil, domain.ErrInvalidInput
	}
	drug := &entity.Drug{
		ID:          uuid.New().String(),
		Code:        in.Code,
		TradeName:   in.TradeName,
		GenericName: in.GenericName,
		Strength:    in.Strength,
		Form:        in.Form,
		Unit:        in.Unit,
		IsActive:    true,
		CollegeID:   claim.College(),
		CreatedBy:   user.ID,
		CreatedAt:   time.Now(),
	}
	if err := uc.drugRepo.Create(drug); err != nil {
		return nil, err
	}
	return drug, nil
}

// ListAvailable devuelve los fármacos activos visibles para el actor con su
// saldo de farmacia, para el selector de añadir al botiquín.
func (uc *UseCase) ListAvailable(ctx context.Context, user *entity.User) ([]*entity.DrugAvailability, error) {
	claim := tenant.Resolve(user)
	if claim.IsNone() {
		return nil, domain.ErrTenantUnassigned
	}
	return uc.drugRepo.ListAvailable(claim)
}

// FindDrugByCode resuelve una entrada de catálogo por su código estable.
// (nil, nil) si el código no existe.
func (uc *UseCase) FindDrugByCode(ctx context.Context, code string) (*entity.Drug, error) {
	return uc.drugRepo.GetByCode(code)
}

// PharmacyAvailableQuantity devuelve el saldo registrado en farmacia para un
// código (0 si no hay fila de stock).
func (uc *UseCase) PharmacyAvailableQuantity(ctx context.Context, code string) (int, error) {
	return uc.stockRepo.GetPharmacyQuantity(code)
}

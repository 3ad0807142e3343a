package repository

import (
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
)

// DrugRepository define el puerto de persistencia del catálogo de fármacos.
type DrugRepository interface {
	Create(d *entity.Drug) error
	GetByCode(code string) (*entity.Drug, error)
	// ListAvailable lista los fármacos activos visibles para el claim junto
	// con su saldo de farmacia (0 si no hay fila de stock).
	ListAvailable(claim tenant.Claim) ([]*entity.DrugAvailability, error)
}

package repository

import (
	"time"

	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
)

// BoxRepository define el puerto de persistencia de botiquines y su contenido.
type BoxRepository interface {
	CreateBox(b *entity.FirstAidBox) error
	GetBox(id string) (*entity.FirstAidBox, error)
	// ListBoxes lista los botiquines visibles para el claim (filtro por
	// facultad aplicado en SQL con predicado parametrizado).
	ListBoxes(claim tenant.Claim) ([]*entity.FirstAidBox, error)
	// TouchReviewed actualiza last_reviewed_at. Telemetría: el caller puede
	// ignorar el error sin comprometer corrección.
	TouchReviewed(id string, at time.Time) error

	CreateItem(it *entity.BoxItem) error
	// GetItem exige pertenencia al botiquín: id correcto en botiquín
	// incorrecto devuelve (nil, nil).
	GetItem(boxID, itemID string) (*entity.BoxItem, error)
	ListItems(boxID string) ([]*entity.BoxItem, error)
	DeleteItem(boxID, itemID string) error
}

package tenant

import "github.com/jhoicas/botiquin-api/internal/domain"

// LegacyVisibility define qué ven los actores acotados cuando un recurso no
// tiene facultad asignada (filas anteriores a la migración de aislamiento).
// Configurable porque el producto aún no lo ha cerrado; la política elegida
// se aplica de forma uniforme en guard y en los filtros SQL.
type LegacyVisibility string

const (
	// LegacyVisible: un recurso sin facultad es visible para cualquier claim
	// (comportamiento del listado histórico). Es el valor por defecto.
	LegacyVisible LegacyVisibility = "visible"
	// LegacyAdminOnly: un recurso sin facultad solo lo ven administradores.
	LegacyAdminOnly LegacyVisibility = "admin_only"
)

// Guard decide si un claim puede actuar sobre un recurso de una facultad.
// Función de decisión pura; se invoca en toda operación mutadora y en las
// lecturas sensibles.
type Guard struct {
	Legacy LegacyVisibility
}

// NewGuard construye la guarda; visibilidad legacy que no se reconozca cae a
// LegacyVisible.
func NewGuard(legacy LegacyVisibility) Guard {
	if legacy != LegacyAdminOnly {
		legacy = LegacyVisible
	}
	return Guard{Legacy: legacy}
}

// Authorize devuelve nil si el claim puede acceder al recurso cuya facultad
// es resourceCollege. Errores posibles: ErrTenantUnassigned (claim None) y
// ErrForbidden (facultades distintas o recurso legacy bajo AdminOnly).
func (g Guard) Authorize(c Claim, resourceCollege string) error {
	if c.IsGlobal() {
		return nil
	}
	if c.IsNone() {
		return domain.ErrTenantUnassigned
	}
	rc := Normalize(resourceCollege)
	if rc == "" {
		if g.Legacy == LegacyAdminOnly {
			return domain.ErrForbidden
		}
		return nil
	}
	if Fold(rc) == c.Key() {
		return nil
	}
	return domain.ErrForbidden
}

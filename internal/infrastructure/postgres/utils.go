package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// tenantPredicate construye el fragmento WHERE de aislamiento por facultad,
// siempre parametrizado: el nombre de facultad es texto libre del usuario y
// nunca se interpola en el SQL. Devuelve el fragmento (con "AND ..." o vacío)
// y los argumentos a añadir; pos es la posición del siguiente placeholder.
//
// Es el único punto donde se decide qué ve cada claim: Global no filtra,
// Scoped filtra por su facultad (incluyendo filas legacy sin facultad según
// la política configurada) y None no ve ninguna fila.
func tenantPredicate(column string, pos int, claim tenant.Claim, legacy tenant.LegacyVisibility) (string, []any) {
	switch {
	case claim.IsGlobal():
		return "", nil
	case claim.IsScoped():
		if legacy == tenant.LegacyAdminOnly {
			return fmt.Sprintf(" AND lower(%s) = lower($%d)", column, pos), []any{claim.College()}
		}
		return fmt.Sprintf(" AND (lower(%s) = lower($%d) OR %s IS NULL OR %s = '')", column, pos, column, column), []any{claim.College()}
	default:
		return " AND false", nil
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/botiquin-api/internal/domain"
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
)

var _ repository.DrugRepository = (*DrugRepo)(nil)

// DrugRepo implementación del catálogo de fármacos sobre PostgreSQL.
type DrugRepo struct {
	q      Querier
	legacy tenant.LegacyVisibility
}

// NewDrugRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewDrugRepository(q Querier, legacy tenant.LegacyVisibility) *DrugRepo {
	return &DrugRepo{q: q, legacy: legacy}
}

// Create persiste una entrada de catálogo. Código duplicado => ErrDuplicate.
func (r *DrugRepo) Create(d *entity.Drug) error {
	query := `
		INSERT INTO drugs (id, drug_code, trade_name, generic_name, strength, form, unit, is_active, college_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Code, d.TradeName, d.GenericName, d.Strength, d.Form, d.Unit,
		d.IsActive, d.CollegeID, d.CreatedBy, d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert drug: %w", err)
	}
	return nil
}

// GetByCode obtiene una entrada por su código estable. (nil, nil) si no existe.
func (r *DrugRepo) GetByCode(code string) (*entity.Drug, error) {
	query := `
		SELECT id, drug_code, trade_name, generic_name, strength, form, unit, is_active, COALESCE(college_id, ''), COALESCE(created_by, ''), created_at
		FROM drugs WHERE drug_code = $1`
	var d entity.Drug
	err := r.q.QueryRow(context.Background(), query, code).Scan(
		&d.ID, &d.Code, &d.TradeName, &d.GenericName, &d.Strength, &d.Form, &d.Unit,
		&d.IsActive, &d.CollegeID, &d.CreatedBy, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get drug: %w", err)
	}
	return &d, nil
}

// ListAvailable lista los fármacos activos visibles para el claim con su
// saldo de farmacia (0 si no hay fila de stock). El aislamiento por facultad
// se aplica con el predicado parametrizado compartido.
func (r *DrugRepo) ListAvailable(claim tenant.Claim) ([]*entity.DrugAvailability, error) {
	query := `
		SELECT d.id, d.drug_code, d.trade_name, d.generic_name, d.strength, d.form, d.unit, d.is_active, COALESCE(d.college_id, ''), COALESCE(d.created_by, ''), d.created_at,
		       COALESCE(ps.balance_qty, 0)
		FROM drugs d
		LEFT JOIN pharmacy_stock ps ON ps.drug_id = d.id
		WHERE d.is_active = TRUE`
	pred, args := tenantPredicate("d.college_id", 1, claim, r.legacy)
	query += pred + " ORDER BY d.trade_name"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list available drugs: %w", err)
	}
	defer rows.Close()

	var list []*entity.DrugAvailability
	for rows.Next() {
		var da entity.DrugAvailability
		if err := rows.Scan(&da.ID, &da.Code, &da.TradeName, &da.GenericName, &da.Strength,
			&da.Form, &da.Unit, &da.IsActive, &da.CollegeID, &da.CreatedBy, &da.CreatedAt,
			&da.AvailableQty); err != nil {
			return nil, fmt.Errorf("scan drug: %w", err)
		}
		list = append(list, &da)
	}
	return list, rows.Err()
}

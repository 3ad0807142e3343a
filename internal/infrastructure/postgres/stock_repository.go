package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con
// pool o tx). Los saldos viven en dos tablas homólogas, warehouse_stock y
// pharmacy_stock, una fila por fármaco.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// stockTable mapea la ubicación a su tabla. Solo acepta las dos constantes
// del dominio; el nombre nunca proviene de entrada de usuario.
func stockTable(loc entity.Location) (string, error) {
	switch loc {
	case entity.LocationWarehouse:
		return "warehouse_stock", nil
	case entity.LocationPharmacy:
		return "pharmacy_stock", nil
	default:
		return "", fmt.Errorf("ubicación desconocida: %q", loc)
	}
}

// Get obtiene el saldo de un fármaco en una ubicación. Sin fila devuelve un
// saldo cero (la fila se crea perezosamente con el primer movimiento).
func (r *StockRepo) Get(drugID string, loc entity.Location) (*entity.StockBalance, error) {
	table, err := stockTable(loc)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT drug_id, balance_qty, COALESCE(college_id, ''), last_updated
		FROM %s WHERE drug_id = $1`, table)
	var s entity.StockBalance
	s.Location = loc
	err = r.q.QueryRow(context.Background(), query, drugID).Scan(
		&s.DrugID, &s.Quantity, &s.CollegeID, &s.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{DrugID: drugID, Location: loc}, nil
		}
		return nil, fmt.Errorf("get stock %s: %w", loc, err)
	}
	return &s, nil
}

// ApplyDelta suma el delta con signo como incremento transaccional en la
// propia sentencia (no read-then-write), de modo que dos peticiones
// concurrentes sobre la misma fila no pierden actualizaciones. Si la fila no
// existe se siembra con el propio delta, aunque nazca negativa.
func (r *StockRepo) ApplyDelta(drugID string, loc entity.Location, delta int, collegeID string) error {
	table, err := stockTable(loc)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (drug_id, balance_qty, college_id, last_updated)
		VALUES ($1, $2, NULLIF($3, ''), now())
		ON CONFLICT (drug_id)
		DO UPDATE SET balance_qty = %s.balance_qty + EXCLUDED.balance_qty,
		              college_id  = COALESCE(EXCLUDED.college_id, %s.college_id),
		              last_updated = now()`, table, table, table)
	if _, err := r.q.Exec(context.Background(), query, drugID, delta, collegeID); err != nil {
		return fmt.Errorf("apply delta %s: %w", loc, err)
	}
	return nil
}

// GetPharmacyQuantity devuelve el saldo de farmacia por código de fármaco
// (0 si el fármaco no tiene fila de stock).
func (r *StockRepo) GetPharmacyQuantity(drugCode string) (int, error) {
	query := `
		SELECT COALESCE(ps.balance_qty, 0)
		FROM drugs d
		LEFT JOIN pharmacy_stock ps ON ps.drug_id = d.id
		WHERE d.drug_code = $1`
	var qty int
	err := r.q.QueryRow(context.Background(), query, drugCode).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("pharmacy quantity: %w", err)
	}
	return qty, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del log de movimientos sobre PostgreSQL.
// Solo INSERT y SELECT: el log es inmutable por contrato y este adaptador no
// contiene ninguna sentencia UPDATE ni DELETE.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Append persiste un registro de auditoría y devuelve su id.
func (r *TransactionRepo) Append(t *entity.DrugTransaction) (string, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO drug_transactions (id, drug_id, drug_code, transaction_type, quantity_change, source, destination, notes, college_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), now())`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.DrugID, t.DrugCode, t.Type, t.QuantityChange,
		t.Source, t.Destination, t.Notes, t.CollegeID, t.CreatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("append drug transaction: %w", err)
	}
	return t.ID, nil
}

// List consulta el log con los filtros dados, del más reciente al más antiguo.
func (r *TransactionRepo) List(f repository.TransactionFilter) ([]*entity.DrugTransaction, error) {
	query := `
		SELECT id, drug_id, drug_code, transaction_type, quantity_change, source, destination, notes, COALESCE(college_id, ''), COALESCE(created_by, ''), created_at
		FROM drug_transactions WHERE 1=1`
	args := []any{}
	pos := 1
	if f.DrugCode != "" {
		query += fmt.Sprintf(" AND drug_code = $%d", pos)
		args = append(args, f.DrugCode)
		pos++
	}
	if f.CollegeID != "" {
		query += fmt.Sprintf(" AND lower(college_id) = lower($%d)", pos)
		args = append(args, f.CollegeID)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drug transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.DrugTransaction
	for rows.Next() {
		var t entity.DrugTransaction
		if err := rows.Scan(&t.ID, &t.DrugID, &t.DrugCode, &t.Type, &t.QuantityChange,
			&t.Source, &t.Destination, &t.Notes, &t.CollegeID, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan drug transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

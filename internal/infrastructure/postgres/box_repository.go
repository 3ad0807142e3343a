package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
)

var _ repository.BoxRepository = (*BoxRepo)(nil)

// BoxRepo implementación de botiquines y su contenido sobre PostgreSQL.
type BoxRepo struct {
	q      Querier
	legacy tenant.LegacyVisibility
}

// NewBoxRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBoxRepository(q Querier, legacy tenant.LegacyVisibility) *BoxRepo {
	return &BoxRepo{q: q, legacy: legacy}
}

// CreateBox persiste un botiquín nuevo.
func (r *BoxRepo) CreateBox(b *entity.FirstAidBox) error {
	query := `
		INSERT INTO first_aid_boxes (id, box_name, location, college_id, created_by, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.Name, b.Location, b.CollegeID, b.CreatedBy, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert box: %w", err)
	}
	return nil
}

// GetBox obtiene un botiquín por id. (nil, nil) si no existe.
func (r *BoxRepo) GetBox(id string) (*entity.FirstAidBox, error) {
	query := `
		SELECT id, box_name, location, COALESCE(college_id, ''), COALESCE(created_by, ''), last_reviewed_at, created_at
		FROM first_aid_boxes WHERE id = $1`
	var b entity.FirstAidBox
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.Name, &b.Location, &b.CollegeID, &b.CreatedBy, &b.LastReviewedAt, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get box: %w", err)
	}
	return &b, nil
}

// ListBoxes lista los botiquines visibles para el claim.
func (r *BoxRepo) ListBoxes(claim tenant.Claim) ([]*entity.FirstAidBox, error) {
	query := `
		SELECT id, box_name, location, COALESCE(college_id, ''), COALESCE(created_by, ''), last_reviewed_at, created_at
		FROM first_aid_boxes WHERE 1=1`
	pred, args := tenantPredicate("college_id", 1, claim, r.legacy)
	query += pred + " ORDER BY box_name"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list boxes: %w", err)
	}
	defer rows.Close()

	var list []*entity.FirstAidBox
	for rows.Next() {
		var b entity.FirstAidBox
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.CollegeID, &b.CreatedBy,
			&b.LastReviewedAt, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan box: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// TouchReviewed actualiza la marca de última revisión del botiquín.
func (r *BoxRepo) TouchReviewed(id string, at time.Time) error {
	query := `UPDATE first_aid_boxes SET last_reviewed_at = $2 WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id, at); err != nil {
		return fmt.Errorf("touch reviewed: %w", err)
	}
	return nil
}

// CreateItem persiste un elemento dentro de un botiquín.
func (r *BoxRepo) CreateItem(it *entity.BoxItem) error {
	query := `
		INSERT INTO first_aid_box_items (id, box_id, college_id, drug_name, drug_code, quantity, unit, expiry_date, notes, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.BoxID, it.CollegeID, it.DrugName, it.DrugCode,
		it.Quantity, it.Unit, it.ExpiryDate, it.Notes, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert box item: %w", err)
	}
	return nil
}

// GetItem obtiene un elemento exigiendo pertenencia al botiquín: un id válido
// en otro botiquín devuelve (nil, nil).
func (r *BoxRepo) GetItem(boxID, itemID string) (*entity.BoxItem, error) {
	query := `
		SELECT id, box_id, COALESCE(college_id, ''), drug_name, COALESCE(drug_code, ''), quantity, unit, expiry_date, COALESCE(notes, ''), created_at
		FROM first_aid_box_items WHERE id = $1 AND box_id = $2`
	var it entity.BoxItem
	err := r.q.QueryRow(context.Background(), query, itemID, boxID).Scan(
		&it.ID, &it.BoxID, &it.CollegeID, &it.DrugName, &it.DrugCode,
		&it.Quantity, &it.Unit, &it.ExpiryDate, &it.Notes, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get box item: %w", err)
	}
	return &it, nil
}

// ListItems lista el contenido de un botiquín.
func (r *BoxRepo) ListItems(boxID string) ([]*entity.BoxItem, error) {
	query := `
		SELECT id, box_id, COALESCE(college_id, ''), drug_name, COALESCE(drug_code, ''), quantity, unit, expiry_date, COALESCE(notes, ''), created_at
		FROM first_aid_box_items WHERE box_id = $1 ORDER BY drug_name`
	rows, err := r.q.Query(context.Background(), query, boxID)
	if err != nil {
		return nil, fmt.Errorf("list box items: %w", err)
	}
	defer rows.Close()

	var list []*entity.BoxItem
	for rows.Next() {
		var it entity.BoxItem
		if err := rows.Scan(&it.ID, &it.BoxID, &it.CollegeID, &it.DrugName, &it.DrugCode,
			&it.Quantity, &it.Unit, &it.ExpiryDate, &it.Notes, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan box item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// DeleteItem borra un elemento de un botiquín (pertenencia exigida).
func (r *BoxRepo) DeleteItem(boxID, itemID string) error {
	query := `DELETE FROM first_aid_box_items WHERE id = $1 AND box_id = $2`
	if _, err := r.q.Exec(context.Background(), query, itemID, boxID); err != nil {
		return fmt.Errorf("delete box item: %w", err)
	}
	return nil
}

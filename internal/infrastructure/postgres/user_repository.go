package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/botiquin-api/internal/domain"
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, full_name, password_hash, is_admin,
	is_doctor, COALESCE(doctor_college, ''),
	is_college_admin, COALESCE(college_admin_college, ''),
	is_hod, COALESCE(hod_college, ''),
	is_active, created_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsAdmin,
		&u.IsDoctor, &u.DoctorCollege,
		&u.IsCollegeAdmin, &u.CollegeAdminCollege,
		&u.IsHOD, &u.HODCollege,
		&u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// Create persiste un usuario nuevo. Email duplicado => ErrDuplicate.
func (r *UserRepo) Create(u *entity.User) error {
	query := `
		INSERT INTO users (id, email, full_name, password_hash, is_admin,
			is_doctor, doctor_college, is_college_admin, college_admin_college,
			is_hod, hod_college, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10, NULLIF($11, ''), $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.IsAdmin,
		u.IsDoctor, u.DoctorCollege, u.IsCollegeAdmin, u.CollegeAdminCollege,
		u.IsHOD, u.HODCollege, u.IsActive, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por id. (nil, nil) si no existe.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRow(context.Background(), query, id))
}

// FindByEmail obtiene un usuario por email. (nil, nil) si no existe.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.q.QueryRow(context.Background(), query, email))
}

package entity

import "time"

// User representa un usuario del sistema. La afiliación a facultad se modela
// como banderas de rol independientes (un usuario puede tener varias a la vez);
// la resolución a un claim único vive en el paquete tenant.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string

	IsAdmin bool // super admin: sin facultad, acceso global

	IsDoctor      bool
	DoctorCollege string

	IsCollegeAdmin      bool
	CollegeAdminCollege string

	IsHOD      bool
	HODCollege string

	IsActive  bool
	CreatedAt time.Time
}

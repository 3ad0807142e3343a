package dto

import "github.com/jhoicas/botiquin-api/internal/domain/entity"

// RegisterRequest alta de usuario. Las facultades vacías significan que el
// usuario no porta ese rol.
type RegisterRequest struct {
	Email               string `json:"email" validate:"required,email"`
	Password            string `json:"password" validate:"required,min=8"`
	FullName            string `json:"full_name"`
	IsAdmin             bool   `json:"is_admin"`
	DoctorCollege       string `json:"doctor_college"`
	CollegeAdminCollege string `json:"college_admin_college"`
	HODCollege          string `json:"hod_college"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse proyección de usuario sin hash.
type UserResponse struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	FullName            string `json:"full_name"`
	IsAdmin             bool   `json:"is_admin"`
	DoctorCollege       string `json:"doctor_college,omitempty"`
	CollegeAdminCollege string `json:"college_admin_college,omitempty"`
	HODCollege          string `json:"hod_college,omitempty"`
}

// LoginResponse token emitido + usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ToUserResponse mapea la entidad a la proyección pública.
func ToUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		FullName:            u.FullName,
		IsAdmin:             u.IsAdmin,
		DoctorCollege:       u.DoctorCollege,
		CollegeAdminCollege: u.CollegeAdminCollege,
		HODCollege:          u.HODCollege,
	}
}

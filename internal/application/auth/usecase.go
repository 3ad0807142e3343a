package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/botiquin-api/internal/application/dto"
	"github.com/jhoicas/botiquin-api/internal/domain"
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/repository"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
	"github.com/jhoicas/botiquin-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: registro y login.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea la password con bcrypt y persiste.
// Las facultades de los roles se normalizan antes de guardar.
func (uc *UseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	existing, _ := uc.userRepo.FindByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := in.FullName
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:                  uuid.New().String(),
		Email:               in.Email,
		FullName:            name,
		PasswordHash:        string(hash),
		IsAdmin:             in.IsAdmin,
		IsDoctor:            in.DoctorCollege != "",
		DoctorCollege:       tenant.Normalize(in.DoctorCollege),
		IsCollegeAdmin:      in.CollegeAdminCollege != "",
		CollegeAdminCollege: tenant.Normalize(in.CollegeAdminCollege),
		IsHOD:               in.HODCollege != "",
		HODCollege:          tenant.Normalize(in.HODCollege),
		IsActive:            true,
		CreatedAt:           time.Now(),
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

// Login verifica email/password, genera el JWT con las banderas de rol y
// retorna token + usuario.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Claims{
		UserID:              user.ID,
		IsAdmin:             user.IsAdmin,
		DoctorCollege:       user.DoctorCollege,
		CollegeAdminCollege: user.CollegeAdminCollege,
		HODCollege:          user.HODCollege,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *dto.ToUserResponse(user)}, nil
}

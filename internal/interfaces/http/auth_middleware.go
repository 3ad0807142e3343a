package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/botiquin-api/internal/application/dto"
	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/pkg/jwt"
)

// Local key para el usuario autenticado en Fiber.
const LocalUser = "auth_user"

// AuthMiddleware valida el Bearer Token JWT y deja en c.Locals el usuario
// reconstruido desde los claims (banderas de rol incluidas). La resolución de
// facultad ocurre después, en los casos de uso.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		user := &entity.User{
			ID:                  claims.UserID,
			FullName:            claims.FullName,
			IsAdmin:             claims.IsAdmin,
			IsDoctor:            claims.DoctorCollege != "",
			DoctorCollege:       claims.DoctorCollege,
			IsCollegeAdmin:      claims.CollegeAdminCollege != "",
			CollegeAdminCollege: claims.CollegeAdminCollege,
			IsHOD:               claims.HODCollege != "",
			HODCollege:          claims.HODCollege,
			IsActive:            true,
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// GetUser devuelve el usuario autenticado del contexto (después del middleware).
func GetUser(c *fiber.Ctx) *entity.User {
	v := c.Locals(LocalUser)
	if v == nil {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

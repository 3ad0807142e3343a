// seed crea datos mínimos de arranque: un usuario administrador y unas
// entradas de catálogo con saldo inicial de farmacia, para probar el flujo
// completo (login, añadir al botiquín, ledger) sin tocar SQL a mano.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/botiquin-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
		fmt.Fprintf(os.Stderr, "migraciones: %v\n", err)
		os.Exit(1)
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	drugRepo := postgres.NewDrugRepository(pool, "visible")
	stockRepo := postgres.NewStockRepository(pool)

	// Admin global (idempotente por email).
	adminEmail := envOr("SEED_ADMIN_EMAIL", "admin@botiquin.local")
	adminPass := envOr("SEED_ADMIN_PASSWORD", "admin1234")
	if existing, _ := userRepo.FindByEmail(adminEmail); existing == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash de password: %v\n", err)
			os.Exit(1)
		}
		admin := &entity.User{
			ID:           uuid.New().String(),
			Email:        adminEmail,
			FullName:     "Administrador",
			PasswordHash: string(hash),
			IsAdmin:      true,
			IsActive:     true,
			CreatedAt:    time.Now(),
		}
		if err := userRepo.Create(admin); err != nil {
			fmt.Fprintf(os.Stderr, "crear admin: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("admin creado: %s\n", adminEmail)
	} else {
		fmt.Printf("admin ya existe: %s\n", adminEmail)
	}

	// Catálogo de ejemplo con saldo inicial en farmacia.
	samples := []struct {
		code, trade, generic, strength, form, unit string
		pharmacyQty                                int
	}{
		{"PARA500", "Paracetamol", "paracetamol", "500mg", "tableta", "tabletas", 200},
		{"IBU400", "Ibuprofeno", "ibuprofeno", "400mg", "tableta", "tabletas", 150},
		{"SSN250", "Suero fisiológico", "cloruro de sodio 0.9%", "250ml", "solución", "frascos", 40},
		{"VENDA5", "Venda elástica", "", "5cm", "rollo", "rollos", 60},
	}
	for _, s := range samples {
		existing, err := drugRepo.GetByCode(s.code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "consultar catálogo %s: %v\n", s.code, err)
			os.Exit(1)
		}
		if existing != nil {
			fmt.Printf("fármaco ya existe: %s\n", s.code)
			continue
		}
		drug := &entity.Drug{
			ID:          uuid.New().String(),
			Code:        s.code,
			TradeName:   s.trade,
			GenericName: s.generic,
			Strength:    s.strength,
			Form:        s.form,
			Unit:        s.unit,
			IsActive:    true,
			CreatedAt:   time.Now(),
		}
		if err := drugRepo.Create(drug); err != nil {
			fmt.Fprintf(os.Stderr, "crear fármaco %s: %v\n", s.code, err)
			os.Exit(1)
		}
		if err := stockRepo.ApplyDelta(drug.ID, entity.LocationPharmacy, s.pharmacyQty, ""); err != nil {
			fmt.Fprintf(os.Stderr, "saldo inicial %s: %v\n", s.code, err)
			os.Exit(1)
		}
		fmt.Printf("fármaco creado: %s (%d en farmacia)\n", s.code, s.pharmacyQty)
	}

	fmt.Println("seed completado")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/botiquin-api/internal/domain/entity"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
)

// ──────────────────────────────────────────────────────────────────────────────
// Resolve — prioridad de roles y degradación a None
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_AdminGanaSiempre(t *testing.T) {
	u := &entity.User{
		IsAdmin:       true,
		IsDoctor:      true,
		DoctorCollege: "Medicina",
	}
	c := tenant.Resolve(u)
	assert.True(t, c.IsGlobal(), "admin debe resolver a claim global aunque tenga otros roles")
	assert.Empty(t, c.College())
}

func TestResolve_DoctorAntesQueCollegeAdmin(t *testing.T) {
	u := &entity.User{
		IsDoctor:            true,
		DoctorCollege:       "Medicina",
		IsCollegeAdmin:      true,
		CollegeAdminCollege: "Ingeniería",
	}
	c := tenant.Resolve(u)
	assert.True(t, c.IsScoped())
	assert.Equal(t, "Medicina", c.College(), "gana el rol de mayor prioridad con facultad")
}

func TestResolve_RolConFacultadVaciaCedeAlSiguiente(t *testing.T) {
	u := &entity.User{
		IsDoctor:      true,
		DoctorCollege: "   ", // vacía tras normalizar
		IsHOD:         true,
		HODCollege:    "Enfermería",
	}
	c := tenant.Resolve(u)
	assert.True(t, c.IsScoped())
	assert.Equal(t, "Enfermería", c.College())
}

func TestResolve_SinRolesUtilizablesEsNone(t *testing.T) {
	assert.True(t, tenant.Resolve(&entity.User{}).IsNone())
	assert.True(t, tenant.Resolve(nil).IsNone())
	assert.True(t, tenant.Resolve(&entity.User{IsHOD: true}).IsNone(),
		"rol con facultad vacía no produce claim")
}

func TestResolve_EsDeterminista(t *testing.T) {
	u := &entity.User{IsCollegeAdmin: true, CollegeAdminCollege: "  Ciencias   Básicas "}
	first := tenant.Resolve(u)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, tenant.Resolve(u))
	}
	assert.Equal(t, "Ciencias Básicas", first.College(), "la facultad llega normalizada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalize / Fold / SameCollege
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalize_ColapsaEspaciosYRecorta(t *testing.T) {
	assert.Equal(t, "Facultad de Medicina", tenant.Normalize("  Facultad   de\tMedicina  "))
	assert.Equal(t, "", tenant.Normalize("   "))
	assert.Equal(t, "", tenant.Normalize(""))
}

func TestNormalize_ConservaMayusculas(t *testing.T) {
	assert.Equal(t, "MEDICINA", tenant.Normalize("MEDICINA"))
}

func TestSameCollege_InsensibleAMayusculasYEspacios(t *testing.T) {
	assert.True(t, tenant.SameCollege("Medicina", "  medicina "))
	assert.True(t, tenant.SameCollege("INGENIERÍA", "ingeniería"),
		"el case folding debe funcionar más allá de ASCII")
	assert.False(t, tenant.SameCollege("Medicina", "Enfermería"))
}

func TestScoped_FacultadVaciaDegradaANone(t *testing.T) {
	assert.True(t, tenant.Scoped("  ").IsNone())
	c := tenant.Scoped(" Medicina ")
	assert.True(t, c.IsScoped())
	assert.Equal(t, "Medicina", c.College())
	assert.Equal(t, tenant.Fold("Medicina"), c.Key())
}

// Package tenant implementa la resolución de facultad del actor y la guarda
// de acceso entre facultades. Todo es puro: sin IO ni efectos secundarios.
package tenant

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/botiquin-api/internal/domain/entity"
)

// Kind distingue los tres resultados posibles de la resolución.
type Kind int

const (
	KindNone   Kind = iota // sin claim utilizable
	KindGlobal             // administrador: sin facultad, acceso total
	KindScoped             // acotado a una facultad concreta
)

// Claim es el resultado de resolver la afiliación de un usuario: una unión
// cerrada Global | Scoped(facultad) | None. Se construye solo con Global,
// Scoped o Resolve para que la facultad llegue siempre normalizada.
type Claim struct {
	kind    Kind
	college string // normalizado (Normalize)
	key     string // clave casefolded para comparación
}

// Global devuelve el claim de administrador (sin facultad).
func Global() Claim { return Claim{kind: KindGlobal} }

// None devuelve la ausencia de claim. Es un resultado válido, no un error.
func None() Claim { return Claim{kind: KindNone} }

// Scoped devuelve un claim acotado a la facultad dada. Si la facultad queda
// vacía tras normalizar, el claim degrada a None.
func Scoped(college string) Claim {
	n := Normalize(college)
	if n == "" {
		return None()
	}
	return Claim{kind: KindScoped, college: n, key: Fold(n)}
}

func (c Claim) Kind() Kind     { return c.kind }
func (c Claim) IsGlobal() bool { return c.kind == KindGlobal }
func (c Claim) IsScoped() bool { return c.kind == KindScoped }
func (c Claim) IsNone() bool   { return c.kind == KindNone }

// College devuelve la facultad normalizada, o "" si el claim no es Scoped.
func (c Claim) College() string { return c.college }

// Key devuelve la clave de comparación casefolded ("" si no es Scoped).
func (c Claim) Key() string { return c.key }

// Resolve deriva el claim efectivo de un usuario según sus banderas de rol.
// Prioridad: Administrator > Doctor > CollegeAdmin > HeadOfDepartment; gana la
// primera coincidencia con facultad no vacía. Determinista e idempotente:
// el mismo usuario produce siempre el mismo claim.
func Resolve(u *entity.User) Claim {
	if u == nil {
		return None()
	}
	if u.IsAdmin {
		return Global()
	}
	if u.IsDoctor {
		if c := Scoped(u.DoctorCollege); c.IsScoped() {
			return c
		}
	}
	if u.IsCollegeAdmin {
		if c := Scoped(u.CollegeAdminCollege); c.IsScoped() {
			return c
		}
	}
	if u.IsHOD {
		if c := Scoped(u.HODCollege); c.IsScoped() {
			return c
		}
	}
	return None()
}

// Normalize canonicaliza un nombre de facultad: recorta, colapsa espacios
// internos y aplica NFC. Conserva mayúsculas (los nombres se muestran tal
// cual se escribieron).
func Normalize(college string) string {
	fields := strings.Fields(college)
	if len(fields) == 0 {
		return ""
	}
	return norm.NFC.String(strings.Join(fields, " "))
}

// Fold produce la clave de comparación insensible a mayúsculas. Los nombres
// de facultad son texto libre multilingüe, así que un ToLower por bytes no
// basta; se usa case folding Unicode.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// SameCollege compara dos nombres de facultad tras normalizar y casefold.
func SameCollege(a, b string) bool {
	return Fold(Normalize(a)) == Fold(Normalize(b))
}

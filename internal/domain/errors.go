package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrItemNotFound       = errors.New("elemento no encontrado en el botiquín")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado: recurso de otra facultad")
	ErrTenantUnassigned   = errors.New("el usuario no tiene facultad asignada")
	ErrInsufficientStock  = errors.New("stock insuficiente en farmacia")
)

package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("registro no encontrado")
	ErrInvalidPassword = errors.New("contraseña inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrInvalidState    = errors.New("transición de estado inválida")
	ErrDuplicate       = errors.New("registro duplicado")
	ErrNoPrimaryBudget = errors.New("el proyecto no tiene presupuesto principal")
)

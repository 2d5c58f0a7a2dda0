package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNotConfigured     = errors.New("datastore no configurado")
	ErrSessionFinalized  = errors.New("la sesión de conteo ya fue finalizada")
	ErrSaleCancelled     = errors.New("la venta ya fue anulada")
)

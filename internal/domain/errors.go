package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrInvalidQuantity cantidad cero/negativa o una operación que dejaría el stock en negativo.
	ErrInvalidQuantity = errors.New("cantidad inválida")
	// ErrInsufficientAvailable la solicitud supera el disponible (stock - reservado).
	ErrInsufficientAvailable = errors.New("disponible insuficiente")
	// ErrTransient el almacén no respondió a tiempo o no está disponible; el resultado puede ser desconocido.
	ErrTransient = errors.New("error transitorio del almacén")
)

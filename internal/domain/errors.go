package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrSupplierRequired = errors.New("proveedor no seleccionado")
	ErrStepNotValid     = errors.New("el paso actual no está completo")
	ErrSubmitInFlight   = errors.New("ya hay un guardado en curso")
)

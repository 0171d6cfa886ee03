package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidMovementType = errors.New("tipo de movimiento inválido")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidAdjustment   = errors.New("ajuste inválido: el stock objetivo no puede ser negativo")
	ErrConflict            = errors.New("conflicto de concurrencia, reintente la operación")
	ErrUnauthorized        = errors.New("no autorizado")
)

// NotFoundError indica qué componente no existe. Unwrap devuelve ErrNotFound.
type NotFoundError struct {
	ComponentID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("componente %s no encontrado", e.ComponentID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StockError detalla una SALIDA rechazada: cantidad solicitada vs disponible.
type StockError struct {
	ComponentID string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para componente %s: solicitado %s, disponible %s",
		e.ComponentID, e.Requested.String(), e.Available.String())
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// AdjustmentError detalla un AJUSTE rechazado: objetivo vs stock actual.
type AdjustmentError struct {
	ComponentID string
	Target      decimal.Decimal
	Current     decimal.Decimal
}

func (e *AdjustmentError) Error() string {
	return fmt.Sprintf("ajuste inválido para componente %s: objetivo %s, stock actual %s",
		e.ComponentID, e.Target.String(), e.Current.String())
}

func (e *AdjustmentError) Unwrap() error { return ErrInvalidAdjustment }

// ValidationError identifica el campo que no pasó la validación. Unwrap devuelve ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

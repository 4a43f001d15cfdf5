package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrImmutable          = errors.New("la requisición está en estado terminal")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrIncompleteDelivery = errors.New("entrega incompleta")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// InsufficientStockError identifica el producto y el faltante cuando el stock
// disponible no alcanza para cubrir las salidas planificadas.
type InsufficientStockError struct {
	ProductID string
	SKU       string
	Required  int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: requiere %d, disponible %d (faltan %d)",
		e.SKU, e.Required, e.Available, e.Shortfall())
}

// Shortfall devuelve cuántas unidades faltan para cubrir la salida.
func (e *InsufficientStockError) Shortfall() int64 {
	return e.Required - e.Available
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InvalidTransitionError indica un cambio de estado no permitido por el ciclo de vida.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transición de estado no permitida: %s → %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// IncompleteDeliveryError indica que se pidió completar la requisición con un
// ítem cuya cantidad planificada queda por debajo de lo solicitado.
type IncompleteDeliveryError struct {
	ItemID    string
	Target    int64
	Requested int64
}

func (e *IncompleteDeliveryError) Error() string {
	return fmt.Sprintf("ítem %s quedaría con %d de %d solicitadas; no se puede completar",
		e.ItemID, e.Target, e.Requested)
}

func (e *IncompleteDeliveryError) Is(target error) bool {
	return target == ErrIncompleteDelivery
}

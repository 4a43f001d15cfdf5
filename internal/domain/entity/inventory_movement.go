package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn     = "in"     // entrada
	MovementTypeOut    = "out"    // salida
	MovementTypeAdjust = "adjust" // ajuste manual
)

// Tipos de referencia de un movimiento (origen del movimiento).
const (
	MovementRefRequest = "request" // entrega de un ítem de requisición
	MovementRefManual  = "manual"  // entrada o ajuste manual de bodega
)

// InventoryMovement es un asiento del libro de inventario: un cambio de stock
// con su causa. Las filas son inmutables una vez escritas; nunca se actualizan
// ni se borran. La pareja (RefType, RequestItemID) es única y actúa como llave
// de idempotencia para las entregas de requisiciones.
type InventoryMovement struct {
	ID            string
	ProductID     string
	Qty           int64  // siempre positiva; el signo lo da Type
	Type          string // in, out, adjust
	RefType       string
	RefID         string // id de la requisición o del documento origen
	RequestItemID string // ítem de requisición; vacío en movimientos manuales
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Note          string
	CreatedBy     string
	CreatedAt     time.Time
}

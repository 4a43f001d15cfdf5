package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo de una unidad (sucursal).
// Stock es la cantidad disponible en la bodega central; solo se muta vía el
// registro de movimientos de inventario, nunca directamente desde las requisiciones.
type Product struct {
	ID          string
	UnitID      string
	SKU         string // código único por unidad
	Name        string
	UnitMeasure string          // etiqueta de unidad de medida (und, caja, kg)
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo promedio ponderado
	Stock       int64           // cantidad disponible, nunca negativa
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

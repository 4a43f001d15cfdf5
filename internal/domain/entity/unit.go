package entity

import "time"

// Unit representa una unidad de negocio (sucursal o punto de venta) que
// solicita reposición a la bodega central. Scoping de productos, usuarios
// y requisiciones.
type Unit struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

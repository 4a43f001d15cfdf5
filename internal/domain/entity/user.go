package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleBodeguero   = "bodeguero"   // opera la bodega central y cumple requisiciones
	RoleSolicitante = "solicitante" // crea requisiciones desde su sucursal
)

// User representa un usuario del sistema (pertenece a una Unit).
type User struct {
	ID           string
	UnitID       string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, bodeguero, solicitante
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

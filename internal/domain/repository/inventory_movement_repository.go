package repository

import "github.com/jhoicas/Requisiciones-api/internal/domain/entity"

// InventoryMovementRepository define el puerto de persistencia para el libro
// de movimientos. Append-only: no hay Update ni Delete.
type InventoryMovementRepository interface {
	// Create inserta un movimiento manual (in/adjust).
	Create(movement *entity.InventoryMovement) error
	// CreateIfAbsent inserta un movimiento de entrega si no existe ya uno con
	// la misma llave (RefType, RequestItemID). Devuelve false si ya existía:
	// la entrega ya fue contabilizada y el llamador no debe tocar el stock.
	CreateIfAbsent(movement *entity.InventoryMovement) (created bool, err error)
	GetByID(id string) (*entity.InventoryMovement, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByRef(refType, refID string) ([]*entity.InventoryMovement, error)
}

package repository

import "github.com/jhoicas/Requisiciones-api/internal/domain/entity"

// RequisitionRepository define el puerto de persistencia para Requisition y sus ítems.
type RequisitionRepository interface {
	// Create inserta la requisición junto con todos sus ítems. Debe usarse
	// dentro de una transacción para que cabecera e ítems queden juntos o ninguno.
	Create(req *entity.Requisition) error
	GetByID(id string) (*entity.Requisition, error)
	// GetByIDForUpdate carga la requisición con sus ítems bloqueando la fila de
	// cabecera (SELECT FOR UPDATE): serializa cumplimientos concurrentes de la
	// misma requisición.
	GetByIDForUpdate(id string) (*entity.Requisition, error)
	UpdateHeader(req *entity.Requisition) error
	UpdateItem(item *entity.RequisitionItem) error
	ListByUnit(unitID, status string, limit, offset int) ([]*entity.Requisition, error)
}

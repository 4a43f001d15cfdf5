package fulfillment

import (
	"context"

	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la unidad de trabajo del motor de
// cumplimiento: todo lo que pasa dentro de fn se confirma o se revierte junto.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		reqRepo repository.RequisitionRepository,
		productRepo repository.ProductRepository,
		movRepo repository.InventoryMovementRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// ScopeChecker decide si un actor puede operar sobre recursos de una unidad.
// La resolución de roles y asignación usuario-unidad vive fuera del motor.
type ScopeChecker interface {
	CanAccess(actorID, unitID string) (bool, error)
}

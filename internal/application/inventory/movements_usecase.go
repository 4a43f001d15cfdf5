package inventory

import (
	"context"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// MovementQueryUseCase consultas de solo lectura sobre el libro de movimientos.
type MovementQueryUseCase struct {
	movRepo repository.InventoryMovementRepository
}

// NewMovementQueryUseCase construye el caso de uso (repos sobre el pool, sin tx).
func NewMovementQueryUseCase(movRepo repository.InventoryMovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo}
}

// ListByProduct lista los movimientos de un producto, más reciente primero.
func (uc *MovementQueryUseCase) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]dto.MovementResponse, error) {
	list, err := uc.movRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// ListByRequisition lista los asientos generados por una requisición.
func (uc *MovementQueryUseCase) ListByRequisition(ctx context.Context, requisitionID string) ([]dto.MovementResponse, error) {
	list, err := uc.movRepo.ListByRef(entity.MovementRefRequest, requisitionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

package usecase

import (
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// RequisitionQueryUseCase consultas de solo lectura sobre requisiciones.
// Las mutaciones van todas por el coordinador de cumplimiento.
type RequisitionQueryUseCase struct {
	repo repository.RequisitionRepository
}

// NewRequisitionQueryUseCase construye el caso de uso (repos sobre el pool, sin tx).
func NewRequisitionQueryUseCase(repo repository.RequisitionRepository) *RequisitionQueryUseCase {
	return &RequisitionQueryUseCase{repo: repo}
}

// GetByID obtiene una requisición con sus ítems.
func (uc *RequisitionQueryUseCase) GetByID(id string) (*dto.RequisitionResponse, error) {
	req, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return toRequisitionResponse(req), nil
}

// ListByUnit lista requisiciones de una unidad, opcionalmente filtradas por estado.
func (uc *RequisitionQueryUseCase) ListByUnit(unitID, status string, limit, offset int) (*dto.RequisitionListResponse, error) {
	switch status {
	case "", entity.RequisitionPending, entity.RequisitionInProgress,
		entity.RequisitionCompleted, entity.RequisitionCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByUnit(unitID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RequisitionResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRequisitionResponse(r))
	}
	return &dto.RequisitionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func toRequisitionResponse(r *entity.Requisition) *dto.RequisitionResponse {
	items := make([]dto.RequisitionItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.RequisitionItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			RequestedQty: it.RequestedQty,
			DeliveredQty: it.DeliveredQty,
			Status:       it.Status,
		})
	}
	return &dto.RequisitionResponse{
		ID:         r.ID,
		UnitID:     r.UnitID,
		Status:     r.Status,
		CreatedBy:  r.CreatedBy,
		AssignedTo: r.AssignedTo,
		Note:       r.Note,
		Items:      items,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

package fulfillment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// CreateRequisition crea una requisición con sus ítems en una sola transacción:
// cabecera e ítems quedan juntos o no queda nada. Los ítems nacen con entrega 0
// y estado pending; la requisición nace pending. A partir de ahí solo el
// coordinador de cumplimiento la muta.
func (uc *UseCase) CreateRequisition(ctx context.Context, actorID, unitID string, in dto.CreateRequisitionRequest) (*dto.RequisitionResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.RequestedQty <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	var out *dto.RequisitionResponse
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.RequisitionRepository,
		productRepo repository.ProductRepository,
		_ repository.InventoryMovementRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		now := time.Now()
		req := &entity.Requisition{
			ID:        uuid.New().String(),
			UnitID:    unitID,
			Status:    entity.RequisitionPending,
			CreatedBy: actorID,
			Note:      in.Note,
			CreatedAt: now,
			UpdatedAt: now,
		}
		for _, it := range in.Items {
			product, err := productRepo.GetByID(it.ProductID)
			if err != nil {
				return err
			}
			if product == nil || product.UnitID != unitID {
				return domain.ErrNotFound
			}
			if !product.IsActive {
				return domain.ErrInvalidInput
			}
			req.Items = append(req.Items, &entity.RequisitionItem{
				ID:            uuid.New().String(),
				RequisitionID: req.ID,
				ProductID:     it.ProductID,
				RequestedQty:  it.RequestedQty,
				DeliveredQty:  0,
				Status:        entity.ItemPending,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		}
		if err := reqRepo.Create(req); err != nil {
			return err
		}

		payload, err := json.Marshal(struct {
			Status string `json:"status"`
			Items  int    `json:"items"`
		}{req.Status, len(req.Items)})
		if err != nil {
			return err
		}
		if err := auditRepo.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			TableName: "requests",
			Action:    entity.AuditActionCreate,
			RecordID:  req.ID,
			UserID:    actorID,
			Payload:   payload,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		out = toRequisitionResponse(req)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

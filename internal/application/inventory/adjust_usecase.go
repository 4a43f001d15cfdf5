// Package inventory contiene los casos de uso de bodega que no pasan por una
// requisición: entradas de mercancía y ajustes manuales. Ambos escriben en el
// mismo libro de movimientos que el motor de cumplimiento.
package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	appfulfillment "github.com/jhoicas/Requisiciones-api/internal/application/fulfillment"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// AdjustStockUseCase registra entradas (in) y ajustes (adjust) de stock de
// forma transaccional: asiento en el libro más actualización relativa del
// stock, con bloqueo de fila del producto.
type AdjustStockUseCase struct {
	txRunner appfulfillment.TxRunner
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner appfulfillment.TxRunner) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner}
}

// Adjust aplica una entrada o un ajuste manual sobre un producto.
//
// Para "in" la cantidad es positiva y el costo unitario obligatorio: recalcula
// el costo promedio ponderado del producto. Para "adjust" la cantidad puede ser
// negativa (merma); un ajuste que dejaría el stock negativo se rechaza con
// stock insuficiente. El asiento siempre guarda la cantidad en positivo; el
// sentido lo da el tipo y el signo del ajuste queda en el payload de auditoría.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, actorID, unitID string, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	switch in.Type {
	case entity.MovementTypeIn:
		if in.Qty <= 0 || in.UnitCost == nil || in.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeAdjust:
		if in.Qty == 0 {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	var out *dto.MovementResponse
	err := uc.txRunner.Run(ctx, func(
		_ repository.RequisitionRepository,
		productRepo repository.ProductRepository,
		movRepo repository.InventoryMovementRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		products, err := productRepo.GetManyForUpdate([]string{in.ProductID})
		if err != nil {
			return err
		}
		product, ok := products[in.ProductID]
		if !ok || product.UnitID != unitID {
			return domain.ErrNotFound
		}
		if in.Qty < 0 && product.Stock+in.Qty < 0 {
			return &domain.InsufficientStockError{
				ProductID: product.ID,
				SKU:       product.SKU,
				Required:  -in.Qty,
				Available: product.Stock,
			}
		}

		now := time.Now()
		unitCost := product.Cost
		if in.Type == entity.MovementTypeIn {
			unitCost = *in.UnitCost
			newCost := weightedAverageCost(product.Stock, product.Cost, in.Qty, unitCost)
			if err := productRepo.UpdateCost(product.ID, newCost); err != nil {
				return err
			}
		}

		qty := in.Qty
		if qty < 0 {
			qty = -qty
		}
		mov := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Qty:       qty,
			Type:      in.Type,
			RefType:   entity.MovementRefManual,
			UnitCost:  unitCost,
			TotalCost: unitCost.Mul(decimal.NewFromInt(qty)),
			Note:      in.Note,
			CreatedBy: actorID,
			CreatedAt: now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := productRepo.AdjustStock(product.ID, in.Qty); err != nil {
			return err
		}

		payload, err := json.Marshal(struct {
			Type      string `json:"type"`
			Delta     int64  `json:"delta"`
			StockFrom int64  `json:"stock_from"`
			StockTo   int64  `json:"stock_to"`
		}{in.Type, in.Qty, product.Stock, product.Stock + in.Qty})
		if err != nil {
			return err
		}
		if err := auditRepo.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			TableName: "inventory_movements",
			Action:    entity.AuditActionAdjust,
			RecordID:  mov.ID,
			UserID:    actorID,
			Payload:   payload,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		out = toMovementResponse(mov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// weightedAverageCost implementa el costo promedio ponderado:
// ((stock * costo) + (entrada * costoEntrada)) / (stock + entrada).
func weightedAverageCost(stock int64, cost decimal.Decimal, inQty int64, inCost decimal.Decimal) decimal.Decimal {
	total := stock + inQty
	if total <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(stock).Mul(cost).Add(decimal.NewFromInt(inQty).Mul(inCost))
	return num.Div(decimal.NewFromInt(total))
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Qty:           m.Qty,
		Type:          m.Type,
		RefType:       m.RefType,
		RefID:         m.RefID,
		RequestItemID: m.RequestItemID,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		Note:          m.Note,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

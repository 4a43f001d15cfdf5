package fulfillment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	domfulfillment "github.com/jhoicas/Requisiciones-api/internal/domain/fulfillment"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// UseCase es el coordinador de cumplimiento: aplica una actualización parcial
// de entrega sobre una requisición dentro de una sola transacción.
// Carga → planifica → valida → aplica → asienta → deriva → persiste.
// Los pasos de lectura y validación no tienen efectos; cualquier fallo ahí
// aborta la transacción sin mutación parcial.
type UseCase struct {
	txRunner TxRunner
	scope    ScopeChecker
}

// NewUseCase construye el coordinador.
func NewUseCase(txRunner TxRunner, scope ScopeChecker) *UseCase {
	return &UseCase{txRunner: txRunner, scope: scope}
}

// auditItemDelta es la foto por ítem que va en el payload de auditoría.
type auditItemDelta struct {
	ItemID        string `json:"item_id"`
	ProductID     string `json:"product_id"`
	DeliveredFrom int64  `json:"delivered_from"`
	DeliveredTo   int64  `json:"delivered_to"`
	MoveDelta     int64  `json:"move_delta"`
	StatusFrom    string `json:"status_from"`
	StatusTo      string `json:"status_to"`
}

// ApplyFulfillment aplica una actualización de cumplimiento sobre la requisición.
//
// Dentro de una transacción: carga la requisición bloqueando la cabecera
// (serializa cumplimientos concurrentes de la misma requisición), planifica la
// entrega de cada ítem, valida completitud y suficiencia de stock, y recién
// entonces persiste ítems, asienta movimientos (idempotentes por ítem),
// descuenta stock, resuelve el estado final y escribe una entrada de auditoría.
// Reaplicar la misma actualización es inocuo: el planificador da delta 0 y el
// libro rechaza el asiento duplicado.
func (uc *UseCase) ApplyFulfillment(ctx context.Context, actorID, requisitionID string, in dto.FulfillRequisitionRequest) (*dto.RequisitionResponse, error) {
	if err := validateFulfillInput(in); err != nil {
		return nil, err
	}

	var out *dto.RequisitionResponse
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.RequisitionRepository,
		productRepo repository.ProductRepository,
		movRepo repository.InventoryMovementRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		req, err := reqRepo.GetByIDForUpdate(requisitionID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.IsTerminal() {
			return domain.ErrImmutable
		}
		ok, err := uc.scope.CanAccess(actorID, req.UnitID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrForbidden
		}

		// Direccionamiento por item_id o product_id resuelto una sola vez
		// a ítems canónicos antes de planificar.
		updates, err := resolveItemUpdates(req.Items, in.Items)
		if err != nil {
			return err
		}

		wantCompleted := in.Status == entity.RequisitionCompleted
		states := make([]domfulfillment.ItemState, 0, len(req.Items))
		plans := make([]domfulfillment.ItemPlan, 0, len(req.Items))
		for _, item := range req.Items {
			state := domfulfillment.ItemState{
				ItemID:       item.ID,
				ProductID:    item.ProductID,
				RequestedQty: item.RequestedQty,
				DeliveredQty: item.DeliveredQty,
				Status:       item.Status,
			}
			states = append(states, state)
			plans = append(plans, domfulfillment.PlanDelivery(state, updates[item.ID], wantCompleted))
		}

		// Completar exige entrega total de todos los ítems, antes de tocar nada.
		if wantCompleted {
			if err := domfulfillment.AssertFullDelivery(plans, states); err != nil {
				return err
			}
		}
		newStatus, err := domfulfillment.ResolveStatus(req.Status, in.Status, plans)
		if err != nil {
			return err
		}

		// Suficiencia de stock sobre los deltas agregados por producto, leyendo
		// con bloqueo de fila. Todo o nada: un faltante aborta la operación completa.
		required := domfulfillment.AggregateOutbound(plans)
		products, err := productRepo.GetManyForUpdate(productIDs(required))
		if err != nil {
			return err
		}
		stocks := make(map[string]domfulfillment.ProductStock, len(products))
		for id, p := range products {
			stocks[id] = domfulfillment.ProductStock{ProductID: id, SKU: p.SKU, Stock: p.Stock}
		}
		if err := domfulfillment.CheckSufficiency(required, stocks); err != nil {
			return err
		}

		// Fase de escritura. Desde aquí todo muta dentro de la misma tx.
		now := time.Now()
		deltas := make([]auditItemDelta, 0, len(plans))
		for i, plan := range plans {
			item := req.Items[i]
			deltas = append(deltas, auditItemDelta{
				ItemID:        item.ID,
				ProductID:     item.ProductID,
				DeliveredFrom: item.DeliveredQty,
				DeliveredTo:   plan.TargetQty,
				MoveDelta:     plan.MoveDelta,
				StatusFrom:    item.Status,
				StatusTo:      plan.Status,
			})
			item.DeliveredQty = plan.TargetQty
			item.Status = plan.Status
			item.UpdatedAt = now
			if err := reqRepo.UpdateItem(item); err != nil {
				return err
			}
			if plan.MoveDelta <= 0 {
				continue
			}
			product := products[plan.ProductID]
			mov := &entity.InventoryMovement{
				ID:            uuid.New().String(),
				ProductID:     plan.ProductID,
				Qty:           plan.MoveDelta,
				Type:          entity.MovementTypeOut,
				RefType:       entity.MovementRefRequest,
				RefID:         req.ID,
				RequestItemID: item.ID,
				UnitCost:      product.Cost,
				TotalCost:     product.Cost.Mul(decimal.NewFromInt(plan.MoveDelta)),
				CreatedBy:     actorID,
				CreatedAt:     now,
			}
			created, err := movRepo.CreateIfAbsent(mov)
			if err != nil {
				return err
			}
			// Asiento ya existente: la entrega ya fue contabilizada por un
			// intento anterior y el stock no debe descontarse otra vez.
			if !created {
				continue
			}
			if err := productRepo.AdjustStock(plan.ProductID, -plan.MoveDelta); err != nil {
				return err
			}
		}

		statusFrom := req.Status
		req.Status = newStatus
		if in.AssignToMe {
			req.AssignedTo = actorID
		}
		if in.Note != nil {
			req.Note = *in.Note
		}
		req.UpdatedAt = now
		if err := reqRepo.UpdateHeader(req); err != nil {
			return err
		}

		payload, err := json.Marshal(struct {
			StatusFrom string           `json:"status_from"`
			StatusTo   string           `json:"status_to"`
			Items      []auditItemDelta `json:"items"`
		}{statusFrom, newStatus, deltas})
		if err != nil {
			return err
		}
		if err := auditRepo.Create(&entity.AuditLog{
			ID:        uuid.New().String(),
			TableName: "requests",
			Action:    entity.AuditActionFulfill,
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

// validateFulfillInput rechaza entradas malformadas antes de abrir la transacción.
func validateFulfillInput(in dto.FulfillRequisitionRequest) error {
	switch in.Status {
	case "", entity.RequisitionInProgress, entity.RequisitionCompleted, entity.RequisitionCancelled:
	default:
		return domain.ErrInvalidInput
	}
	for _, u := range in.Items {
		if (u.ItemID == "") == (u.ProductID == "") {
			// exactamente uno de item_id / product_id
			return domain.ErrInvalidInput
		}
		if u.DeliveredQty == nil && u.Status == "" {
			return domain.ErrInvalidInput
		}
		if u.DeliveredQty != nil && *u.DeliveredQty < 0 {
			return domain.ErrInvalidInput
		}
		switch u.Status {
		case "", entity.ItemPending, entity.ItemPartial, entity.ItemDelivered, entity.ItemCancelled:
		default:
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// resolveItemUpdates traduce las actualizaciones del llamador a un mapa por
// ítem canónico. Ids desconocidos o direccionamiento ambiguo por producto
// (dos ítems del mismo producto) son entrada inválida.
func resolveItemUpdates(items []*entity.RequisitionItem, updates []dto.FulfillItemUpdate) (map[string]domfulfillment.ItemUpdate, error) {
	byID := make(map[string]*entity.RequisitionItem, len(items))
	byProduct := make(map[string][]*entity.RequisitionItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
		byProduct[it.ProductID] = append(byProduct[it.ProductID], it)
	}

	resolved := make(map[string]domfulfillment.ItemUpdate, len(updates))
	for _, u := range updates {
		var item *entity.RequisitionItem
		switch {
		case u.ItemID != "":
			item = byID[u.ItemID]
		default:
			matches := byProduct[u.ProductID]
			if len(matches) > 1 {
				return nil, domain.ErrInvalidInput
			}
			if len(matches) == 1 {
				item = matches[0]
			}
		}
		if item == nil {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := resolved[item.ID]; dup {
			return nil, domain.ErrInvalidInput
		}
		resolved[item.ID] = domfulfillment.ItemUpdate{TargetQty: u.DeliveredQty, Status: u.Status}
	}
	return resolved, nil
}

func productIDs(required map[string]int64) []string {
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	return ids
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

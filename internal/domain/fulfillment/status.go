package fulfillment

import (
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// transitions enumera las transiciones explícitas permitidas del ciclo de vida
// de una requisición. completed y cancelled son terminales: no aparecen como origen.
var transitions = map[string][]string{
	entity.RequisitionPending:    {entity.RequisitionInProgress, entity.RequisitionCancelled},
	entity.RequisitionInProgress: {entity.RequisitionCompleted, entity.RequisitionCancelled},
}

// CanTransition indica si el cambio explícito from → to está permitido.
// Quedarse en el mismo estado siempre es válido (no es una transición).
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ResolveStatus resuelve el estado final de la requisición tras aplicar los
// planes de ítems. Si el llamador pidió un estado explícito se valida contra
// la tabla de transiciones; si no, se deriva de los estados de los ítems:
// todos cancelados → cancelled; todos entregados o cancelados → completed;
// cualquier avance → in_progress; sin avance desde pending → pending.
func ResolveStatus(current, requested string, plans []ItemPlan) (string, error) {
	if requested != "" {
		if !CanTransition(current, requested) {
			return "", &domain.InvalidTransitionError{From: current, To: requested}
		}
		return requested, nil
	}
	return deriveRequisitionStatus(current, plans), nil
}

// AssertFullDelivery exige que todos los ítems queden con su cantidad
// solicitada cubierta antes de completar. Los ítems cancelados no cuentan.
func AssertFullDelivery(plans []ItemPlan, states []ItemState) error {
	byID := make(map[string]ItemState, len(states))
	for _, s := range states {
		byID[s.ItemID] = s
	}
	for _, p := range plans {
		if p.Status == entity.ItemCancelled {
			continue
		}
		s := byID[p.ItemID]
		if p.TargetQty < s.RequestedQty {
			return &domain.IncompleteDeliveryError{
				ItemID:    p.ItemID,
				Target:    p.TargetQty,
				Requested: s.RequestedQty,
			}
		}
	}
	return nil
}

func deriveRequisitionStatus(current string, plans []ItemPlan) string {
	if len(plans) == 0 {
		return current
	}
	allCancelled := true
	allClosed := true
	anyProgress := false
	for _, p := range plans {
		if p.Status != entity.ItemCancelled {
			allCancelled = false
		}
		if p.Status != entity.ItemCancelled && p.Status != entity.ItemDelivered {
			allClosed = false
		}
		if p.TargetQty > 0 {
			anyProgress = true
		}
	}
	switch {
	case allCancelled:
		return entity.RequisitionCancelled
	case allClosed:
		return entity.RequisitionCompleted
	case current == entity.RequisitionPending && !anyProgress:
		return entity.RequisitionPending
	default:
		return entity.RequisitionInProgress
	}
}

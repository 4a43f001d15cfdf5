// Package fulfillment contiene el núcleo puro del motor de cumplimiento de
// requisiciones: el planificador de entregas por ítem, la máquina de estados
// de la requisición y la validación de suficiencia de stock. Ninguna función
// de este paquete toca almacenamiento; todas son deterministas.
package fulfillment

import "github.com/jhoicas/Requisiciones-api/internal/domain/entity"

// ItemState es el estado actual de un ítem relevante para planificar.
type ItemState struct {
	ItemID       string
	ProductID    string
	RequestedQty int64
	DeliveredQty int64
	Status       string
}

// ItemUpdate es lo que el llamador pide para un ítem: una cantidad entregada
// objetivo y/o un estado explícito. Ambos opcionales.
type ItemUpdate struct {
	TargetQty *int64
	Status    string
}

// ItemPlan es el resultado de planificar un ítem: la cantidad entregada
// objetivo ya acotada, el delta de movimiento y el estado resultante.
type ItemPlan struct {
	ItemID    string
	ProductID string
	TargetQty int64
	MoveDelta int64
	Status    string
}

// PlanDelivery calcula el plan de entrega de un ítem.
//
// Si el llamador dio cantidad objetivo, se acota a [0, RequestedQty]. Si no la
// dio pero la requisición se quiere completar, el objetivo es la cantidad
// solicitada. En cualquier otro caso el objetivo es lo ya entregado (sin cambio).
// Las entregas solo avanzan: MoveDelta nunca es negativo; una reversa se
// registra como movimiento de ajuste, no por esta vía. Determinista: repetir la
// llamada con el mismo objetivo produce MoveDelta 0.
func PlanDelivery(state ItemState, update ItemUpdate, wantCompleted bool) ItemPlan {
	target := state.DeliveredQty
	switch {
	case update.TargetQty != nil:
		target = clamp(*update.TargetQty, 0, state.RequestedQty)
	case wantCompleted && update.Status != entity.ItemCancelled:
		// Completar la requisición implica entrega total, salvo que el
		// llamador esté cancelando este ítem en la misma operación.
		target = state.RequestedQty
	}

	delta := target - state.DeliveredQty
	if delta < 0 {
		delta = 0
	}

	status := deriveItemStatus(target, state.RequestedQty)
	// Un estado explícito del llamador manda sobre el derivado, pero no
	// sobre la cota de la cantidad objetivo.
	if update.Status != "" {
		status = update.Status
	}

	return ItemPlan{
		ItemID:    state.ItemID,
		ProductID: state.ProductID,
		TargetQty: target,
		MoveDelta: delta,
		Status:    status,
	}
}

// deriveItemStatus deriva el estado del ítem de (objetivo, solicitado).
func deriveItemStatus(target, requested int64) string {
	switch {
	case target <= 0:
		return entity.ItemPending
	case target >= requested:
		return entity.ItemDelivered
	default:
		return entity.ItemPartial
	}
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

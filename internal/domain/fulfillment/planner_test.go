package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/fulfillment"
)

func qty(v int64) *int64 { return &v }

func TestPlanDelivery(t *testing.T) {
	tests := []struct {
		name          string
		state         fulfillment.ItemState
		update        fulfillment.ItemUpdate
		wantCompleted bool
		wantTarget    int64
		wantDelta     int64
		wantStatus    string
	}{
		{
			name:       "entrega parcial desde cero",
			state:      fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 0},
			update:     fulfillment.ItemUpdate{TargetQty: qty(4)},
			wantTarget: 4, wantDelta: 4, wantStatus: entity.ItemPartial,
		},
		{
			name:       "reaplicar el mismo objetivo no genera delta",
			state:      fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 4, Status: entity.ItemPartial},
			update:     fulfillment.ItemUpdate{TargetQty: qty(4)},
			wantTarget: 4, wantDelta: 0, wantStatus: entity.ItemPartial,
		},
		{
			name:       "entrega completa",
			state:      fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 4},
			update:     fulfillment.ItemUpdate{TargetQty: qty(10)},
			wantTarget: 10, wantDelta: 6, wantStatus: entity.ItemDelivered,
		},
		{
			name:       "objetivo mayor a lo solicitado se acota",
			state:      fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 0},
			update:     fulfillment.ItemUpdate{TargetQty: qty(25)},
			wantTarget: 10, wantDelta: 10, wantStatus: entity.ItemDelivered,
		},
		{
			name:       "objetivo negativo se acota a cero",
			state:      fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 0},
			update:     fulfillment.ItemUpdate{TargetQty: qty(-3)},
			wantTarget: 0, wantDelta: 0, wantStatus: entity.ItemPending,
		},
		{
			name:       "las entregas no retroceden: objetivo menor no genera delta negativo",
			state:      fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 7},
			update:     fulfillment.ItemUpdate{TargetQty: qty(3)},
			wantTarget: 3, wantDelta: 0, wantStatus: entity.ItemPartial,
		},
		{
			name:          "completar la requisición implica entrega total del ítem",
			state:         fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 4},
			wantCompleted: true,
			wantTarget:    10, wantDelta: 6, wantStatus: entity.ItemDelivered,
		},
		{
			name:          "cancelar un ítem mientras se completa no fuerza su entrega",
			state:         fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 2, Status: entity.ItemPartial},
			update:        fulfillment.ItemUpdate{Status: entity.ItemCancelled},
			wantCompleted: true,
			wantTarget:    2, wantDelta: 0, wantStatus: entity.ItemCancelled,
		},
		{
			name:       "sin objetivo ni completar: sin cambio",
			state:      fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 4, Status: entity.ItemPartial},
			wantTarget: 4, wantDelta: 0, wantStatus: entity.ItemPartial,
		},
		{
			name:       "estado explícito manda sobre el derivado",
			state:      fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 0},
			update:     fulfillment.ItemUpdate{TargetQty: qty(4), Status: entity.ItemCancelled},
			wantTarget: 4, wantDelta: 4, wantStatus: entity.ItemCancelled,
		},
		{
			name:       "estado explícito no salta la cota de cantidad",
			state:      fulfillment.ItemState{RequestedQty: 10, DeliveredQty: 0},
			update:     fulfillment.ItemUpdate{TargetQty: qty(99), Status: entity.ItemPartial},
			wantTarget: 10, wantDelta: 10, wantStatus: entity.ItemPartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := fulfillment.PlanDelivery(tt.state, tt.update, tt.wantCompleted)
			assert.Equal(t, tt.wantTarget, plan.TargetQty, "cantidad objetivo")
			assert.Equal(t, tt.wantDelta, plan.MoveDelta, "delta de movimiento")
			assert.Equal(t, tt.wantStatus, plan.Status, "estado del ítem")
		})
	}
}

// Determinismo: dos llamadas consecutivas con el mismo objetivo, actualizando el
// estado entre medio, dejan delta 0 en la segunda. Base de los reintentos idempotentes.
func TestPlanDelivery_Idempotente(t *testing.T) {
	state := fulfillment.ItemState{ItemID: "i1", ProductID: "p1", RequestedQty: 10}
	update := fulfillment.ItemUpdate{TargetQty: qty(6)}

	first := fulfillment.PlanDelivery(state, update, false)
	assert.Equal(t, int64(6), first.MoveDelta)

	state.DeliveredQty = first.TargetQty
	state.Status = first.Status
	second := fulfillment.PlanDelivery(state, update, false)
	assert.Equal(t, int64(0), second.MoveDelta)
	assert.Equal(t, first.TargetQty, second.TargetQty)
	assert.Equal(t, first.Status, second.Status)
}

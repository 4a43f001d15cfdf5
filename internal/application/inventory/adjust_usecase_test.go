package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
)

func TestWeightedAverageCost(t *testing.T) {
	// 10 und a $5 + 10 und a $7 = promedio $6.
	got := weightedAverageCost(10, decimal.NewFromInt(5), 10, decimal.NewFromInt(7))
	assert.True(t, got.Equal(decimal.NewFromInt(6)), "got %s", got)

	// Stock cero: el costo pasa a ser el de la entrada.
	got = weightedAverageCost(0, decimal.Zero, 5, decimal.NewFromInt(3))
	assert.True(t, got.Equal(decimal.NewFromInt(3)), "got %s", got)

	// Total no positivo: costo cero.
	got = weightedAverageCost(0, decimal.Zero, 0, decimal.NewFromInt(3))
	assert.True(t, got.Equal(decimal.Zero), "got %s", got)
}

// Las entradas malformadas se rechazan antes de abrir transacción alguna
// (el runner nil probaría con pánico lo contrario).
func TestAdjust_EntradasInvalidas(t *testing.T) {
	uc := NewAdjustStockUseCase(nil)
	cost := decimal.NewFromInt(3)
	negCost := decimal.NewFromInt(-1)

	tests := []struct {
		name string
		in   dto.AdjustStockRequest
	}{
		{"tipo desconocido", dto.AdjustStockRequest{ProductID: "p1", Type: "out", Qty: 1}},
		{"entrada sin costo", dto.AdjustStockRequest{ProductID: "p1", Type: "in", Qty: 5}},
		{"entrada con costo negativo", dto.AdjustStockRequest{ProductID: "p1", Type: "in", Qty: 5, UnitCost: &negCost}},
		{"entrada con cantidad negativa", dto.AdjustStockRequest{ProductID: "p1", Type: "in", Qty: -5, UnitCost: &cost}},
		{"ajuste con cantidad cero", dto.AdjustStockRequest{ProductID: "p1", Type: "adjust", Qty: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Adjust(context.Background(), "user-1", "unit-1", tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

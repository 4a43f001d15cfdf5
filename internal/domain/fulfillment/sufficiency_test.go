package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/fulfillment"
)

func TestAggregateOutbound(t *testing.T) {
	plans := []fulfillment.ItemPlan{
		{ItemID: "i1", ProductID: "p1", MoveDelta: 4},
		{ItemID: "i2", ProductID: "p1", MoveDelta: 3}, // mismo producto, dos ítems
		{ItemID: "i3", ProductID: "p2", MoveDelta: 0}, // sin movimiento: no aparece
		{ItemID: "i4", ProductID: "p3", MoveDelta: 2},
	}
	required := fulfillment.AggregateOutbound(plans)
	assert.Equal(t, map[string]int64{"p1": 7, "p3": 2}, required)
}

func TestCheckSufficiency(t *testing.T) {
	stocks := map[string]fulfillment.ProductStock{
		"p1": {ProductID: "p1", SKU: "SKU-1", Stock: 7},
		"p2": {ProductID: "p2", SKU: "SKU-2", Stock: 5},
	}

	// Justo alcanza.
	require.NoError(t, fulfillment.CheckSufficiency(map[string]int64{"p1": 7, "p2": 5}, stocks))

	// Falta stock: error tipado con producto y faltante.
	err := fulfillment.CheckSufficiency(map[string]int64{"p2": 8}, stocks)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var sErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "p2", sErr.ProductID)
	assert.Equal(t, "SKU-2", sErr.SKU)
	assert.Equal(t, int64(8), sErr.Required)
	assert.Equal(t, int64(5), sErr.Available)
	assert.Equal(t, int64(3), sErr.Shortfall())

	// Producto desconocido en el plan.
	err = fulfillment.CheckSufficiency(map[string]int64{"p9": 1}, stocks)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

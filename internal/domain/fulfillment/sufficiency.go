package fulfillment

import "github.com/jhoicas/Requisiciones-api/internal/domain"

// AggregateOutbound suma los deltas de salida por producto. Una requisición
// puede tener varios ítems del mismo producto; el chequeo de suficiencia se
// hace contra la suma, no ítem por ítem.
func AggregateOutbound(plans []ItemPlan) map[string]int64 {
	required := make(map[string]int64)
	for _, p := range plans {
		if p.MoveDelta > 0 {
			required[p.ProductID] += p.MoveDelta
		}
	}
	return required
}

// ProductStock es lo mínimo que la validación necesita de un producto.
type ProductStock struct {
	ProductID string
	SKU       string
	Stock     int64
}

// CheckSufficiency falla con InsufficientStockError si algún producto no
// alcanza a cubrir su salida agregada. Todo o nada: un solo faltante
// invalida la operación completa antes de cualquier mutación.
func CheckSufficiency(required map[string]int64, stocks map[string]ProductStock) error {
	for productID, qty := range required {
		s, ok := stocks[productID]
		if !ok {
			return domain.ErrNotFound
		}
		if s.Stock < qty {
			return &domain.InsufficientStockError{
				ProductID: productID,
				SKU:       s.SKU,
				Required:  qty,
				Available: s.Stock,
			}
		}
	}
	return nil
}

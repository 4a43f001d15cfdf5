package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Type "in" exige qty positiva y unit_cost; "adjust" acepta qty con signo.
type AdjustStockRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Type      string           `json:"type" validate:"required,oneof=in adjust"`
	Qty       int64            `json:"qty" validate:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Note      string           `json:"note" validate:"max=500"`
}

// MovementResponse salida de un movimiento del libro de inventario.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Qty           int64           `json:"qty"`
	Type          string          `json:"type"`
	RefType       string          `json:"ref_type"`
	RefID         string          `json:"ref_id,omitempty"`
	RequestItemID string          `json:"request_item_id,omitempty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Note          string          `json:"note,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

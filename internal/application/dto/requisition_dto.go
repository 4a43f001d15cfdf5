package dto

import "time"

// CreateRequisitionItemRequest una línea de la requisición a crear.
type CreateRequisitionItemRequest struct {
	ProductID    string `json:"product_id" validate:"required,uuid"`
	RequestedQty int64  `json:"requested_qty" validate:"required,gt=0"`
}

// CreateRequisitionRequest entrada para POST /api/requisitions.
type CreateRequisitionRequest struct {
	Note  string                         `json:"note" validate:"max=500"`
	Items []CreateRequisitionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// FulfillItemUpdate actualización de un ítem dentro del cumplimiento.
// El ítem se direcciona por item_id o por product_id (exactamente uno).
type FulfillItemUpdate struct {
	ItemID       string `json:"item_id,omitempty"`
	ProductID    string `json:"product_id,omitempty"`
	DeliveredQty *int64 `json:"delivered_qty,omitempty"`
	Status       string `json:"status,omitempty" validate:"omitempty,oneof=pending partial delivered cancelled"`
}

// FulfillRequisitionRequest body para PATCH /api/requisitions/:id/fulfillment.
type FulfillRequisitionRequest struct {
	Status     string              `json:"status,omitempty" validate:"omitempty,oneof=in_progress completed cancelled"`
	AssignToMe bool                `json:"assign_to_me,omitempty"`
	Note       *string             `json:"note,omitempty" validate:"omitempty,max=500"`
	Items      []FulfillItemUpdate `json:"items,omitempty" validate:"omitempty,dive"`
}

// RequisitionItemResponse salida de un ítem de requisición.
type RequisitionItemResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	RequestedQty int64  `json:"requested_qty"`
	DeliveredQty int64  `json:"delivered_qty"`
	Status       string `json:"status"`
}

// RequisitionResponse salida de una requisición con sus ítems.
type RequisitionResponse struct {
	ID         string                    `json:"id"`
	UnitID     string                    `json:"unit_id"`
	Status     string                    `json:"status"`
	CreatedBy  string                    `json:"created_by"`
	AssignedTo string                    `json:"assigned_to,omitempty"`
	Note       string                    `json:"note,omitempty"`
	Items      []RequisitionItemResponse `json:"items"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// RequisitionListResponse lista paginada de requisiciones.
type RequisitionListResponse struct {
	Items []RequisitionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

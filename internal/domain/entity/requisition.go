package entity

import "time"

// Estados de una requisición. completed y cancelled son terminales:
// una requisición en estado terminal no admite ninguna mutación posterior.
const (
	RequisitionPending    = "pending"
	RequisitionInProgress = "in_progress"
	RequisitionCompleted  = "completed"
	RequisitionCancelled  = "cancelled"
)

// Estados de un ítem de requisición.
const (
	ItemPending   = "pending"
	ItemPartial   = "partial"
	ItemDelivered = "delivered"
	ItemCancelled = "cancelled"
)

// Requisition representa una solicitud de reposición de stock de una sucursal
// hacia la bodega central. Se crea junto con sus ítems en una sola transacción
// y solo se muta a través del motor de cumplimiento hasta llegar a un estado terminal.
type Requisition struct {
	ID         string
	UnitID     string
	Status     string
	CreatedBy  string
	AssignedTo string // bodeguero asignado; vacío si nadie la tomó
	Note       string
	Items      []*RequisitionItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsTerminal indica si la requisición ya no admite mutaciones.
func (r *Requisition) IsTerminal() bool {
	return r.Status == RequisitionCompleted || r.Status == RequisitionCancelled
}

// RequisitionItem es una línea de producto dentro de una requisición.
// RequestedQty queda fija al crear; DeliveredQty solo crece y nunca
// supera RequestedQty.
type RequisitionItem struct {
	ID            string
	RequisitionID string
	ProductID     string
	RequestedQty  int64
	DeliveredQty  int64
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

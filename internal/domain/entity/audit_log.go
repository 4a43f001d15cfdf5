package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en audit_logs.
const (
	AuditActionCreate  = "create"
	AuditActionUpdate  = "update"
	AuditActionFulfill = "fulfill"
	AuditActionAdjust  = "adjust"
)

// AuditLog es una entrada inmutable de auditoría: quién hizo qué sobre qué
// registro, con una foto antes/después serializada en Payload.
type AuditLog struct {
	ID        string
	TableName string
	Action    string
	RecordID  string
	UserID    string
	Payload   json.RawMessage
	CreatedAt time.Time
}

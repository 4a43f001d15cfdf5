package repository

import "github.com/jhoicas/Requisiciones-api/internal/domain/entity"

// AuditLogRepository define el puerto de escritura de auditoría. Append-only;
// el core escribe y nunca vuelve a leer ni valida estas filas.
type AuditLogRepository interface {
	Create(entry *entity.AuditLog) error
}

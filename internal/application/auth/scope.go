package auth

import (
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// ScopeService resuelve si un actor puede operar sobre una unidad.
// admin y bodeguero operan cualquier unidad (la bodega central atiende a
// todas); solicitante solo la suya. Implementa fulfillment.ScopeChecker.
type ScopeService struct {
	userRepo repository.UserRepository
}

// NewScopeService construye el verificador de alcance.
func NewScopeService(userRepo repository.UserRepository) *ScopeService {
	return &ScopeService{userRepo: userRepo}
}

// CanAccess indica si el actor puede tocar recursos de la unidad dada.
func (s *ScopeService) CanAccess(actorID, unitID string) (bool, error) {
	user, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, domain.ErrUserNotFound
	}
	switch user.Role {
	case entity.RoleAdmin, entity.RoleBodeguero:
		return true, nil
	default:
		return user.UnitID == unitID, nil
	}
}

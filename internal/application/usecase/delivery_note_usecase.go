package usecase

import (
	"context"

	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// DeliveryNotePDFGenerator puerto para el generador de la remisión en PDF
// (implementado con Maroto en infrastructure/pdf).
type DeliveryNotePDFGenerator interface {
	GenerateDeliveryNotePDF(
		ctx context.Context,
		req *entity.Requisition,
		unit *entity.Unit,
		products map[string]*entity.Product,
	) ([]byte, error)
}

// DeliveryNoteUseCase genera la remisión (nota de entrega) de una requisición.
type DeliveryNoteUseCase struct {
	reqRepo     repository.RequisitionRepository
	unitRepo    repository.UnitRepository
	productRepo repository.ProductRepository
	generator   DeliveryNotePDFGenerator
}

// NewDeliveryNoteUseCase construye el caso de uso.
func NewDeliveryNoteUseCase(
	reqRepo repository.RequisitionRepository,
	unitRepo repository.UnitRepository,
	productRepo repository.ProductRepository,
	generator DeliveryNotePDFGenerator,
) *DeliveryNoteUseCase {
	return &DeliveryNoteUseCase{
		reqRepo:     reqRepo,
		unitRepo:    unitRepo,
		productRepo: productRepo,
		generator:   generator,
	}
}

// Generate arma la remisión de la requisición y devuelve los bytes del PDF.
func (uc *DeliveryNoteUseCase) Generate(ctx context.Context, requisitionID string) ([]byte, error) {
	req, err := uc.reqRepo.GetByID(requisitionID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	unit, err := uc.unitRepo.GetByID(req.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	products := make(map[string]*entity.Product, len(req.Items))
	for _, it := range req.Items {
		if _, ok := products[it.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		products[it.ProductID] = p
	}
	return uc.generator.GenerateDeliveryNotePDF(ctx, req, unit, products)
}

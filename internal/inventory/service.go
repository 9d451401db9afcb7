package inventory

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateMaterialRequest) (*Material, error) {
	id, err := s.repo.Create(ctx, Material{
		Code:           req.Code,
		Name:           req.Name,
		Unit:           req.Unit,
		AlertThreshold: req.AlertThreshold,
		UnitCost:       req.UnitCost,
	})
	if err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateMaterialRequest) (*Material, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.AlertThreshold != nil {
		updates["alert_threshold"] = *req.AlertThreshold
	}
	if req.UnitCost != nil {
		updates["unit_cost"] = *req.UnitCost
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update material: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Material, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Material, error) {
	return s.repo.List(ctx)
}

// LowStock lists materials under their alert threshold.
func (s *Service) LowStock(ctx context.Context) ([]Material, error) {
	return s.repo.ListBelowThreshold(ctx)
}

// RecordMovement appends one manual stock movement.
func (s *Service) RecordMovement(ctx context.Context, materialID int64, req RecordMovementRequest) error {
	if err := s.repo.Move(ctx, materialID, req.Type, req.Quantity, req.Reason); err != nil {
		return fmt.Errorf("record movement: %w", err)
	}
	return nil
}

// Deduct consumes materials atomically, used by production lot recording.
func (s *Service) Deduct(ctx context.Context, deductions []Deduction) error {
	if len(deductions) == 0 {
		return nil
	}
	return s.repo.MoveBatch(ctx, deductions)
}

func (s *Service) Movements(ctx context.Context, materialID int64, limit int) ([]Movement, error) {
	return s.repo.ListMovements(ctx, materialID, limit)
}

package catalog

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

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	id, err := s.repo.Create(ctx, Product{
		Code:          req.Code,
		Designation:   req.Designation,
		Unit:          req.Unit,
		UnitPriceHT:   req.UnitPriceHT,
		DefaultTaxPct: req.DefaultTaxPct,
		Description:   req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	updates := make(map[string]interface{})
	if req.Designation != nil {
		updates["designation"] = *req.Designation
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.UnitPriceHT != nil {
		updates["unit_price_ht"] = *req.UnitPriceHT
	}
	if req.DefaultTaxPct != nil {
		updates["default_tax_pct"] = *req.DefaultTaxPct
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

// AdjustStock moves finished stock. Billing validation and production
// lot recording call this through their ports.
func (s *Service) AdjustStock(ctx context.Context, adjustments []StockAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	return s.repo.AdjustStock(ctx, adjustments)
}

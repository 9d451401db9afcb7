package production

import (
	"context"
	"fmt"
	"sort"

	"github.com/batipro-erp/batipro-erp/internal/catalog"
	"github.com/batipro-erp/batipro-erp/internal/inventory"
)

// MaterialPort is the slice of the inventory service production needs.
type MaterialPort interface {
	List(ctx context.Context) ([]inventory.Material, error)
	Deduct(ctx context.Context, deductions []inventory.Deduction) error
}

// ProductPort is the slice of the catalog service production needs.
type ProductPort interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
	AdjustStock(ctx context.Context, adjustments []catalog.StockAdjustment) error
}

type Service struct {
	repo      Repository
	materials MaterialPort
	products  ProductPort
}

func NewService(repo Repository, materials MaterialPort, products ProductPort) *Service {
	return &Service{repo: repo, materials: materials, products: products}
}

// SetRecipe replaces a product's raw-material recipe.
func (s *Service) SetRecipe(ctx context.Context, productID int64, req SetRecipeRequest) ([]RecipeLine, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, fmt.Errorf("verify product: %w", err)
	}

	lines := make([]RecipeLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, RecipeLine{
			ProductID:       productID,
			MaterialID:      l.MaterialID,
			QuantityPerUnit: l.QuantityPerUnit,
		})
	}
	if err := s.repo.SetRecipe(ctx, productID, lines); err != nil {
		return nil, fmt.Errorf("set recipe: %w", err)
	}
	return s.repo.GetRecipe(ctx, productID)
}

func (s *Service) GetRecipe(ctx context.Context, productID int64) ([]RecipeLine, error) {
	return s.repo.GetRecipe(ctx, productID)
}

// RecordLot registers a production run: raw materials are consumed per
// the product's recipe, finished stock goes up, and the lot is
// numbered and stored.
func (s *Service) RecordLot(ctx context.Context, req RecordLotRequest) (*Lot, error) {
	if _, err := s.products.Get(ctx, req.ProductID); err != nil {
		return nil, fmt.Errorf("verify product: %w", err)
	}

	recipe, err := s.repo.GetRecipe(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}

	lotNumber, err := s.repo.GenerateLotNumber(ctx, req.ProducedAt)
	if err != nil {
		return nil, fmt.Errorf("generate lot number: %w", err)
	}

	if len(recipe) > 0 {
		deductions := make([]inventory.Deduction, 0, len(recipe))
		for _, line := range recipe {
			deductions = append(deductions, inventory.Deduction{
				MaterialID: line.MaterialID,
				Quantity:   line.QuantityPerUnit * req.Quantity,
				Reason:     fmt.Sprintf("production %s", lotNumber),
			})
		}
		if err := s.materials.Deduct(ctx, deductions); err != nil {
			return nil, fmt.Errorf("consume materials: %w", err)
		}
	}

	if err := s.products.AdjustStock(ctx, []catalog.StockAdjustment{{
		ProductID: req.ProductID,
		Delta:     req.Quantity,
		Reason:    fmt.Sprintf("production %s", lotNumber),
	}}); err != nil {
		return nil, fmt.Errorf("credit finished stock: %w", err)
	}

	id, err := s.repo.CreateLot(ctx, Lot{
		LotNumber:  lotNumber,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		ProducedAt: req.ProducedAt,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}
	return s.repo.GetLot(ctx, id)
}

func (s *Service) ListLots(ctx context.Context, productID *int64, limit, offset int) ([]Lot, int, error) {
	return s.repo.ListLots(ctx, productID, limit, offset)
}

// Simulate crosses planned outputs with product recipes and rolls the
// requirements up per raw material against available stock. Pure
// read-side computation; nothing is reserved or deducted.
func (s *Service) Simulate(ctx context.Context, req SimulationRequest) (*SimulationResult, error) {
	materials, err := s.materials.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	byID := make(map[int64]inventory.Material, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}

	required := make(map[int64]float64)
	for _, plan := range req.Plans {
		recipe, err := s.repo.GetRecipe(ctx, plan.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load recipe for product %d: %w", plan.ProductID, err)
		}
		for _, line := range recipe {
			required[line.MaterialID] += line.QuantityPerUnit * plan.Quantity
		}
	}

	result := &SimulationResult{Feasible: true}
	for materialID, qty := range required {
		m := byID[materialID]
		r := MaterialRequirement{
			MaterialID:   materialID,
			MaterialName: m.Name,
			Unit:         m.Unit,
			Required:     qty,
			Available:    m.StockQuantity,
		}
		if qty > m.StockQuantity {
			r.Shortfall = qty - m.StockQuantity
			result.Feasible = false
		}
		result.Requirements = append(result.Requirements, r)
	}

	sort.Slice(result.Requirements, func(i, j int) bool {
		return result.Requirements[i].MaterialID < result.Requirements[j].MaterialID
	})
	return result, nil
}

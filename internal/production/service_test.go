package production

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/batipro-erp/batipro-erp/internal/catalog"
	"github.com/batipro-erp/batipro-erp/internal/inventory"
	"github.com/batipro-erp/batipro-erp/internal/shared"
)

type fakeRepo struct {
	recipes map[int64][]RecipeLine
	lots    map[int64]*Lot
	nextLot int64
	seq     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		recipes: make(map[int64][]RecipeLine),
		lots:    make(map[int64]*Lot),
	}
}

func (f *fakeRepo) GetRecipe(_ context.Context, productID int64) ([]RecipeLine, error) {
	return append([]RecipeLine(nil), f.recipes[productID]...), nil
}

func (f *fakeRepo) SetRecipe(_ context.Context, productID int64, lines []RecipeLine) error {
	f.recipes[productID] = append([]RecipeLine(nil), lines...)
	return nil
}

func (f *fakeRepo) CreateLot(_ context.Context, lot Lot) (int64, error) {
	f.nextLot++
	lot.ID = f.nextLot
	f.lots[lot.ID] = &lot
	return lot.ID, nil
}

func (f *fakeRepo) GetLot(_ context.Context, id int64) (*Lot, error) {
	lot, ok := f.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

func (f *fakeRepo) ListLots(_ context.Context, productID *int64, limit, offset int) ([]Lot, int, error) {
	var out []Lot
	for _, lot := range f.lots {
		if productID != nil && lot.ProductID != *productID {
			continue
		}
		out = append(out, *lot)
	}
	return out, len(out), nil
}

func (f *fakeRepo) GenerateLotNumber(_ context.Context, producedAt time.Time) (string, error) {
	f.seq++
	return fmt.Sprintf("LOT-%d-%04d", producedAt.Year(), f.seq), nil
}

type fakeMaterials struct {
	materials  []inventory.Material
	deductions []inventory.Deduction
	deductErr  error
}

func (f *fakeMaterials) List(_ context.Context) ([]inventory.Material, error) {
	return f.materials, nil
}

func (f *fakeMaterials) Deduct(_ context.Context, deductions []inventory.Deduction) error {
	if f.deductErr != nil {
		return f.deductErr
	}
	f.deductions = append(f.deductions, deductions...)
	return nil
}

type fakeProducts struct {
	products    map[int64]*catalog.Product
	adjustments []catalog.StockAdjustment
}

func (f *fakeProducts) Get(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) AdjustStock(_ context.Context, adjustments []catalog.StockAdjustment) error {
	f.adjustments = append(f.adjustments, adjustments...)
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakeMaterials, *fakeProducts) {
	repo := newFakeRepo()
	materials := &fakeMaterials{
		materials: []inventory.Material{
			{ID: 1, Code: "CIM", Name: "Ciment", Unit: "kg", StockQuantity: 1000},
			{ID: 2, Code: "SAB", Name: "Sable", Unit: "kg", StockQuantity: 500},
		},
	}
	products := &fakeProducts{
		products: map[int64]*catalog.Product{
			20: {ID: 20, Code: "PARP-20", Designation: "Parpaing 20cm"},
			21: {ID: 21, Code: "HOUR-16", Designation: "Hourdis 16cm"},
		},
	}
	return NewService(repo, materials, products), repo, materials, products
}

func TestSetRecipeReplacesLines(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	lines, err := svc.SetRecipe(ctx, 20, SetRecipeRequest{
		Lines: []RecipeLineReq{
			{MaterialID: 1, QuantityPerUnit: 2},
			{MaterialID: 2, QuantityPerUnit: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	lines, err = svc.SetRecipe(ctx, 20, SetRecipeRequest{
		Lines: []RecipeLineReq{{MaterialID: 1, QuantityPerUnit: 5}},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.InDelta(t, 5.0, lines[0].QuantityPerUnit, 1e-9)
}

func TestSetRecipeRequiresExistingProduct(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.SetRecipe(context.Background(), 99, SetRecipeRequest{
		Lines: []RecipeLineReq{{MaterialID: 1, QuantityPerUnit: 1}},
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRecordLotConsumesRecipeAndCreditsStock(t *testing.T) {
	svc, _, materials, products := newTestService()
	ctx := context.Background()

	_, err := svc.SetRecipe(ctx, 20, SetRecipeRequest{
		Lines: []RecipeLineReq{
			{MaterialID: 1, QuantityPerUnit: 2},
			{MaterialID: 2, QuantityPerUnit: 0.5},
		},
	})
	require.NoError(t, err)

	lot, err := svc.RecordLot(ctx, RecordLotRequest{
		ProductID:  20,
		Quantity:   100,
		ProducedAt: time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "LOT-2026-0001", lot.LotNumber)

	require.Len(t, materials.deductions, 2)
	require.Equal(t, int64(1), materials.deductions[0].MaterialID)
	require.InDelta(t, 200.0, materials.deductions[0].Quantity, 1e-9)
	require.InDelta(t, 50.0, materials.deductions[1].Quantity, 1e-9)
	require.Contains(t, materials.deductions[0].Reason, lot.LotNumber)

	require.Len(t, products.adjustments, 1)
	require.Equal(t, int64(20), products.adjustments[0].ProductID)
	require.InDelta(t, 100.0, products.adjustments[0].Delta, 1e-9)
}

func TestRecordLotWithoutRecipeSkipsDeduction(t *testing.T) {
	svc, _, materials, products := newTestService()

	lot, err := svc.RecordLot(context.Background(), RecordLotRequest{
		ProductID:  21,
		Quantity:   40,
		ProducedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NotNil(t, lot)
	require.Empty(t, materials.deductions)
	require.Len(t, products.adjustments, 1)
}

func TestRecordLotStopsOnInsufficientMaterials(t *testing.T) {
	svc, repo, materials, products := newTestService()
	ctx := context.Background()
	materials.deductErr = shared.ErrInsufficientStock

	_, err := svc.SetRecipe(ctx, 20, SetRecipeRequest{
		Lines: []RecipeLineReq{{MaterialID: 1, QuantityPerUnit: 2}},
	})
	require.NoError(t, err)

	_, err = svc.RecordLot(ctx, RecordLotRequest{
		ProductID:  20,
		Quantity:   100,
		ProducedAt: time.Now(),
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.Empty(t, products.adjustments)
	require.Empty(t, repo.lots)
}

func TestSimulateRollsUpRequirements(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	// Parpaing: 2kg ciment + 3kg sable; Hourdis: 1kg ciment.
	_, err := svc.SetRecipe(ctx, 20, SetRecipeRequest{
		Lines: []RecipeLineReq{
			{MaterialID: 1, QuantityPerUnit: 2},
			{MaterialID: 2, QuantityPerUnit: 3},
		},
	})
	require.NoError(t, err)
	_, err = svc.SetRecipe(ctx, 21, SetRecipeRequest{
		Lines: []RecipeLineReq{{MaterialID: 1, QuantityPerUnit: 1}},
	})
	require.NoError(t, err)

	result, err := svc.Simulate(ctx, SimulationRequest{
		Plans: []PlannedOutput{
			{ProductID: 20, Quantity: 100},
			{ProductID: 21, Quantity: 300},
		},
	})
	require.NoError(t, err)

	// Ciment: 2*100 + 1*300 = 500 of 1000 in stock.
	// Sable: 3*100 = 300 of 500 in stock.
	require.True(t, result.Feasible)
	require.Len(t, result.Requirements, 2)
	require.Equal(t, int64(1), result.Requirements[0].MaterialID)
	require.InDelta(t, 500.0, result.Requirements[0].Required, 1e-9)
	require.Zero(t, result.Requirements[0].Shortfall)
	require.InDelta(t, 300.0, result.Requirements[1].Required, 1e-9)
}

func TestSimulateReportsShortfall(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SetRecipe(ctx, 20, SetRecipeRequest{
		Lines: []RecipeLineReq{{MaterialID: 2, QuantityPerUnit: 3}},
	})
	require.NoError(t, err)

	result, err := svc.Simulate(ctx, SimulationRequest{
		Plans: []PlannedOutput{{ProductID: 20, Quantity: 200}},
	})
	require.NoError(t, err)

	// Sable: needs 600, stock 500.
	require.False(t, result.Feasible)
	require.Len(t, result.Requirements, 1)
	require.InDelta(t, 600.0, result.Requirements[0].Required, 1e-9)
	require.InDelta(t, 100.0, result.Requirements[0].Shortfall, 1e-9)
	require.Equal(t, "Sable", result.Requirements[0].MaterialName)
}

package production

import "time"

// RecipeLine states how much of one raw material a single produced
// unit of a product consumes.
type RecipeLine struct {
	ID              int64   `json:"id" db:"id"`
	ProductID       int64   `json:"product_id" db:"product_id"`
	MaterialID      int64   `json:"material_id" db:"material_id"`
	QuantityPerUnit float64 `json:"quantity_per_unit" db:"quantity_per_unit"`
}

// Lot records one production run of a product.
type Lot struct {
	ID         int64     `json:"id" db:"id"`
	LotNumber  string    `json:"lot_number" db:"lot_number"`
	ProductID  int64     `json:"product_id" db:"product_id"`
	Quantity   float64   `json:"quantity" db:"quantity"`
	ProducedAt time.Time `json:"produced_at" db:"produced_at"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type RecipeLineReq struct {
	MaterialID      int64   `json:"material_id" validate:"required,gt=0"`
	QuantityPerUnit float64 `json:"quantity_per_unit" validate:"required,gt=0"`
}

type SetRecipeRequest struct {
	Lines []RecipeLineReq `json:"lines" validate:"required,min=1,dive"`
}

type RecordLotRequest struct {
	ProductID  int64     `json:"product_id" validate:"required,gt=0"`
	Quantity   float64   `json:"quantity" validate:"required,gt=0"`
	ProducedAt time.Time `json:"produced_at" validate:"required"`
	Notes      *string   `json:"notes,omitempty"`
}

// PlannedOutput is one row of a simulation: how many units of a
// product the plant intends to produce.
type PlannedOutput struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type SimulationRequest struct {
	Plans []PlannedOutput `json:"plans" validate:"required,min=1,dive"`
}

// MaterialRequirement is the per-material rollup of a simulation.
type MaterialRequirement struct {
	MaterialID   int64   `json:"material_id"`
	MaterialName string  `json:"material_name"`
	Unit         string  `json:"unit"`
	Required     float64 `json:"required"`
	Available    float64 `json:"available"`
	Shortfall    float64 `json:"shortfall"`
}

// SimulationResult crosses planned outputs with recipes: total
// raw-material needs against available stock.
type SimulationResult struct {
	Requirements []MaterialRequirement `json:"requirements"`
	Feasible     bool                  `json:"feasible"`
}

package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/batipro-erp/batipro-erp/internal/platform/db"
	"github.com/batipro-erp/batipro-erp/internal/shared"
)

type Repository interface {
	GetRecipe(ctx context.Context, productID int64) ([]RecipeLine, error)
	SetRecipe(ctx context.Context, productID int64, lines []RecipeLine) error
	CreateLot(ctx context.Context, lot Lot) (int64, error)
	GetLot(ctx context.Context, id int64) (*Lot, error)
	ListLots(ctx context.Context, productID *int64, limit, offset int) ([]Lot, int, error)
	GenerateLotNumber(ctx context.Context, producedAt time.Time) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GetRecipe(ctx context.Context, productID int64) ([]RecipeLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, material_id, quantity_per_unit
		 FROM recipe_lines WHERE product_id = $1 ORDER BY material_id`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecipeLine
	for rows.Next() {
		var l RecipeLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.MaterialID, &l.QuantityPerUnit); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SetRecipe replaces a product's recipe atomically.
func (r *repository) SetRecipe(ctx context.Context, productID int64, lines []RecipeLine) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_lines WHERE product_id = $1`, productID); err != nil {
			return err
		}
		for _, l := range lines {
			_, err := tx.Exec(ctx,
				`INSERT INTO recipe_lines (product_id, material_id, quantity_per_unit) VALUES ($1, $2, $3)`,
				productID, l.MaterialID, l.QuantityPerUnit,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) CreateLot(ctx context.Context, lot Lot) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO production_lots (lot_number, product_id, quantity, produced_at, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id`,
		lot.LotNumber, lot.ProductID, lot.Quantity, lot.ProducedAt, lot.Notes,
	).Scan(&id)
	return id, err
}

func (r *repository) GetLot(ctx context.Context, id int64) (*Lot, error) {
	var l Lot
	err := r.pool.QueryRow(ctx,
		`SELECT id, lot_number, product_id, quantity, produced_at, notes, created_at
		 FROM production_lots WHERE id = $1`, id,
	).Scan(&l.ID, &l.LotNumber, &l.ProductID, &l.Quantity, &l.ProducedAt, &l.Notes, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) ListLots(ctx context.Context, productID *int64, limit, offset int) ([]Lot, int, error) {
	where := ""
	var args []interface{}
	argPos := 1
	if productID != nil {
		where = fmt.Sprintf(" WHERE product_id = $%d", argPos)
		args = append(args, *productID)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM production_lots"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		`SELECT id, lot_number, product_id, quantity, produced_at, notes, created_at
		 FROM production_lots%s ORDER BY produced_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, argPos, argPos+1,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Lot
	for rows.Next() {
		var l Lot
		if err := rows.Scan(&l.ID, &l.LotNumber, &l.ProductID, &l.Quantity, &l.ProducedAt, &l.Notes, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

// GenerateLotNumber produces LOT-YYYY-NNNN from an atomic per-year counter.
func (r *repository) GenerateLotNumber(ctx context.Context, producedAt time.Time) (string, error) {
	year := producedAt.Year()
	var seq int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lot_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_value = lot_sequences.last_value + 1
		RETURNING last_value`,
		year,
	).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LOT-%d-%04d", year, seq), nil
}
